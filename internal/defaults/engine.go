// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package defaults turns partial entity descriptions into fully populated
// model entities and inserts them into a store.
//
// Every missing id becomes a fresh Snowflake and every missing scalar gets a
// constant default. Explicit ids are observed by the generator so later
// allocations never collide with them. After a guild is built it is
// normalized: foreign keys are injected and every dangling reference gets a
// placeholder entity, so converters never meet a missing record.
package defaults

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/samber/oops"

	"github.com/holomush/simcord/internal/ids"
	"github.com/holomush/simcord/internal/model"
	"github.com/holomush/simcord/internal/store"
)

// Constant defaults.
const (
	TextChannelName     = "general"
	VoiceChannelName    = "General"
	TextCategoryName    = "Text Channels"
	VoiceCategoryName   = "Voice Channels"
	ThreadName          = "thread"
	RoleName            = "new role"
	EveryoneRoleName    = "@everyone"
	GuildName           = "Test Guild"
	Username            = "user"
	ApplicationName     = "Test Application"
	EmojiName           = "emoji"
	StickerName         = "sticker"
	EventName           = "event"
	EventLocation       = "somewhere"
	WebhookName         = "Captain Hook"
	AFKTimeout          = 300
	Locale              = "en-US"
	Bitrate             = 64000
	AutoArchiveDuration = 1440
	InviteMaxAge        = 86400
	MaxMembers          = 250000
	MaxVideoUsers       = 25
	VideoQualityAuto    = 1
)

// Engine builds entities into one store.
type Engine struct {
	store       *store.Store
	ids         *ids.Generator
	currentUser snowflake.ID
}

// New creates an engine bound to s.
func New(s *store.Store) *Engine {
	return &Engine{store: s, ids: s.IDs}
}

// CurrentUser returns the user new entities are attributed to by default.
func (e *Engine) CurrentUser() snowflake.ID {
	return e.currentUser
}

// SetCurrentUser changes the default owner, author and creator. The user is
// synthesized when unknown.
func (e *Engine) SetCurrentUser(id snowflake.ID) {
	e.ensureUser(id)
	e.currentUser = id
}

// Populate builds a whole store from spec. Users and applications come
// first so guilds can reference them; the session user is the first
// application's bot, else the first user. An empty spec still yields one
// application with a bot user.
func (e *Engine) Populate(spec StoreSpec) error {
	for _, u := range spec.Users {
		e.AddUser(u)
	}
	for _, a := range spec.Applications {
		e.AddApplication(a)
	}
	if e.currentUser == 0 {
		switch app, ok := e.store.Application(); {
		case ok && app.Bot != nil:
			e.currentUser = app.Bot.ID
		case e.store.Users.Len() > 0:
			e.currentUser = e.store.Users.Oldest().Key
		default:
			e.currentUser = e.AddApplication(ApplicationSpec{}).Bot.ID
		}
	}

	regions := spec.VoiceRegions
	if len(regions) == 0 && e.store.VoiceRegions.Len() == 0 {
		regions = VoiceRegions()
	}
	for _, r := range regions {
		e.AddVoiceRegion(r)
	}

	for i, g := range spec.Guilds {
		if _, err := e.AddGuild(g); err != nil {
			return oops.Code("SEED_GUILD_INVALID").With("index", i).Wrap(err)
		}
	}
	for i, c := range spec.PrivateChannels {
		if _, err := e.AddChannel(nil, c); err != nil {
			return oops.Code("SEED_CHANNEL_INVALID").With("index", i).Wrap(err)
		}
	}
	for i, inv := range spec.Invites {
		if _, err := e.AddInvite(inv); err != nil {
			return oops.Code("SEED_INVITE_INVALID").With("index", i).Wrap(err)
		}
	}
	for i, w := range spec.Webhooks {
		if _, err := e.AddWebhook(w); err != nil {
			return oops.Code("SEED_WEBHOOK_INVALID").With("index", i).Wrap(err)
		}
	}
	return nil
}

// AddUser builds a user and registers it, replacing any placeholder with
// the same id.
func (e *Engine) AddUser(spec UserSpec) *model.User {
	u := e.user(spec)
	e.store.Users.Set(u.ID, u)
	return u
}

func (e *Engine) user(spec UserSpec) *model.User {
	u := &model.User{
		ID:          e.id(spec.ID),
		Username:    val(spec.Username, Username),
		GlobalName:  spec.GlobalName,
		Avatar:      spec.Avatar,
		Banner:      spec.Banner,
		Bot:         val(spec.Bot, false),
		System:      val(spec.System, false),
		Verified:    val(spec.Verified, true),
		Email:       spec.Email,
		Locale:      val(spec.Locale, Locale),
		Flags:       val(spec.Flags, 0),
		PublicFlags: val(spec.PublicFlags, 0),
		PremiumType: val(spec.PremiumType, 0),
	}
	if spec.Discriminator != nil {
		u.Discriminator = *spec.Discriminator
	} else {
		u.Discriminator = e.ids.Discriminator()
	}
	return u
}

// AddApplication builds an application and its bot user. The bot shares the
// application's id unless one is given.
func (e *Engine) AddApplication(spec ApplicationSpec) *model.Application {
	id := e.id(spec.ID)
	name := val(spec.Name, ApplicationName)
	botSpec := UserSpec{}
	if spec.Bot != nil {
		botSpec = *spec.Bot
	}
	if botSpec.ID == nil {
		botSpec.ID = &id
	}
	if botSpec.Username == nil {
		botSpec.Username = &name
	}
	bot := e.user(botSpec)
	bot.Bot = true

	a := &model.Application{
		ID:          id,
		Name:        name,
		Icon:        spec.Icon,
		Description: val(spec.Description, ""),
		BotPublic:   val(spec.BotPublic, true),
		OwnerID:     val(spec.OwnerID, 0),
		VerifyKey:   e.ids.Token(),
		Flags:       val(spec.Flags, 0),
		Bot:         bot,
	}
	if a.OwnerID != 0 {
		e.ensureUser(a.OwnerID)
	}
	e.store.Applications.Set(a.ID, a)
	return a
}

// id returns the explicit id, observed by the generator, or a fresh one.
func (e *Engine) id(p *snowflake.ID) snowflake.ID {
	if p != nil && *p != 0 {
		e.ids.Observe(*p)
		return *p
	}
	return e.ids.Next()
}

// ensureUser registers a placeholder user for an unknown id.
func (e *Engine) ensureUser(id snowflake.ID) {
	if id == 0 {
		return
	}
	if _, ok := e.store.User(id); ok {
		return
	}
	e.AddUser(UserSpec{ID: &id})
}

func val[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func cloneIDs(in []snowflake.ID) []snowflake.ID {
	return append([]snowflake.ID{}, in...)
}
