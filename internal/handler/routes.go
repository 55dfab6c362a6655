// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handler

// routeTable lists every operation the service serves.
func (s *Service) routeTable() []Route {
	var routes []Route
	for _, group := range [][]Route{
		s.messageRoutes(),
		s.channelRoutes(),
		s.inviteRoutes(),
		s.webhookRoutes(),
		s.guildRoutes(),
		s.templateRoutes(),
		s.userRoutes(),
	} {
		routes = append(routes, group...)
	}
	return routes
}
