package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"ChatBuddy/models"
	"ChatBuddy/pkg/logger"

	"gorm.io/gorm"
)

// Orchestrator is the driver-facing core. Every persona-scoped call checks that the
// session user owns the persona, and every error it returns belongs to the taxonomy
// in errors.go.
type Orchestrator struct {
	Credentials *CredentialStore
	Personas    *PersonaRepository
	History     *ConversationHistory
	Creative    *CreativeService

	gen     Generator
	timeout time.Duration
}

// NewOrchestrator wires the stores over db. A zero timeout disables the provider deadline.
func NewOrchestrator(db *gorm.DB, gen Generator, timeout time.Duration) *Orchestrator {
	return &Orchestrator{
		Credentials: NewCredentialStore(db),
		Personas:    NewPersonaRepository(db),
		History:     NewConversationHistory(db),
		Creative:    NewCreativeService(db),
		gen:         gen,
		timeout:     timeout,
	}
}

// RegistrationResult carries the new user. SeedErr is set when the default personas
// could not be created; the account exists regardless.
type RegistrationResult struct {
	User    *models.User
	SeedErr error
}

func (r *RegistrationResult) Seeded() bool { return r.SeedErr == nil }

type Profile struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	CreatedAt    time.Time `json:"created_at"`
	PersonaCount int64     `json:"persona_count"`
}

// ChatTurn is the outcome of SendChatTurn. UserMessage is set whenever the user's
// turn was persisted, including when the model call then failed.
type ChatTurn struct {
	UserMessage *models.Message `json:"user_message"`
	Reply       *models.Message `json:"reply,omitempty"`
}

func (o *Orchestrator) RegisterUser(ctx context.Context, handle, password string) (*RegistrationResult, error) {
	user, err := o.Credentials.Register(ctx, handle, password)
	if err != nil {
		return nil, normalize(err)
	}
	res := &RegistrationResult{User: user}
	if err := o.Personas.SeedDefaults(ctx, user.ID); err != nil {
		res.SeedErr = normalize(err)
		logger.FromContext(ctx).Error("seed default personas failed", "user_id", user.ID, "error", err)
	}
	logger.FromContext(ctx).Info("user registered", "user_id", user.ID, "seeded", res.Seeded())
	return res, nil
}

func (o *Orchestrator) Authenticate(ctx context.Context, handle, password string) (*models.User, error) {
	user, err := o.Credentials.Authenticate(ctx, handle, password)
	return user, normalize(err)
}

func (o *Orchestrator) Profile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := o.Credentials.Get(ctx, userID)
	if err != nil {
		return nil, normalize(err)
	}
	n, err := o.Personas.CountFor(ctx, userID)
	if err != nil {
		return nil, normalize(err)
	}
	return &Profile{ID: user.ID, Username: user.Username, CreatedAt: user.CreatedAt, PersonaCount: n}, nil
}

func (o *Orchestrator) ListPersonas(ctx context.Context, userID uint) ([]models.Persona, error) {
	ps, err := o.Personas.ListFor(ctx, userID)
	return ps, normalize(err)
}

func (o *Orchestrator) CreatePersona(ctx context.Context, userID uint, name, instructions string) (*models.Persona, error) {
	p, err := o.Personas.Create(ctx, userID, name, instructions)
	if err != nil {
		return nil, normalize(err)
	}
	logger.FromContext(ctx).Info("persona created", "user_id", userID, "persona_id", p.ID)
	return p, nil
}

// SendChatTurn persists the user's text, asks the model with the full transcript and
// persists the reply. A failed model call leaves the user turn in place.
func (o *Orchestrator) SendChatTurn(ctx context.Context, sess Session, text string) (*ChatTurn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalidf("message is required")
	}
	persona, err := o.authorize(ctx, sess)
	if err != nil {
		return nil, err
	}

	userMsg, err := o.History.Append(ctx, persona.ID, text, models.RoleUser)
	if err != nil {
		return nil, normalize(err)
	}
	turn := &ChatTurn{UserMessage: userMsg}

	reply, err := o.reply(ctx, persona, text)
	if err != nil {
		return turn, err
	}
	turn.Reply = reply
	return turn, nil
}

// RetryChatTurn answers a trailing user turn left unanswered by a failed call,
// without appending it again.
func (o *Orchestrator) RetryChatTurn(ctx context.Context, sess Session) (*models.Message, error) {
	persona, err := o.authorize(ctx, sess)
	if err != nil {
		return nil, err
	}
	msgs, err := o.History.HistoryFor(ctx, persona.ID)
	if err != nil {
		return nil, normalize(err)
	}
	if len(msgs) == 0 || msgs[len(msgs)-1].Role != models.RoleUser {
		return nil, ErrNothingToRetry
	}
	return o.reply(ctx, persona, msgs[len(msgs)-1].Content)
}

func (o *Orchestrator) reply(ctx context.Context, persona *models.Persona, prompt string) (*models.Message, error) {
	msgs, err := o.History.HistoryFor(ctx, persona.ID)
	if err != nil {
		return nil, normalize(err)
	}
	text, err := o.generate(ctx, persona.Instructions, ToModelHistory(msgs), prompt)
	if err != nil {
		return nil, err
	}
	bot, err := o.History.Append(ctx, persona.ID, text, models.RoleBot)
	if err != nil {
		return nil, normalize(err)
	}
	return bot, nil
}

func (o *Orchestrator) GeneratePost(ctx context.Context, sess Session, opts PostOptions) (*models.CreativeRecord, error) {
	if err := opts.Normalize(); err != nil {
		return nil, err
	}
	return o.generateCreative(ctx, sess, models.CategoryPost, opts.Prompt(), opts)
}

func (o *Orchestrator) GenerateStory(ctx context.Context, sess Session, opts StoryOptions) (*models.CreativeRecord, error) {
	if err := opts.Normalize(); err != nil {
		return nil, err
	}
	return o.generateCreative(ctx, sess, models.CategoryStory, opts.Prompt(), opts)
}

// generateCreative is stateless: no earlier records are sent to the model.
func (o *Orchestrator) generateCreative(ctx context.Context, sess Session, category models.Category, prompt string, params any) (*models.CreativeRecord, error) {
	persona, err := o.authorize(ctx, sess)
	if err != nil {
		return nil, err
	}
	text, err := o.generate(ctx, persona.Instructions, nil, prompt)
	if err != nil {
		return nil, err
	}
	rec, err := o.Creative.Record(ctx, persona.ID, category, prompt, text, params)
	if err != nil {
		return nil, normalize(err)
	}
	logger.FromContext(ctx).Info("creative record stored", "persona_id", persona.ID, "category", category, "record_id", rec.ID)
	return rec, nil
}

func (o *Orchestrator) GetChatHistory(ctx context.Context, sess Session) ([]models.Message, error) {
	persona, err := o.authorize(ctx, sess)
	if err != nil {
		return nil, err
	}
	msgs, err := o.History.HistoryFor(ctx, persona.ID)
	return msgs, normalize(err)
}

func (o *Orchestrator) GetCreativeHistory(ctx context.Context, sess Session, category models.Category) ([]models.CreativeRecord, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	persona, err := o.authorize(ctx, sess)
	if err != nil {
		return nil, err
	}
	recs, err := o.Creative.HistoryFor(ctx, persona.ID, category)
	return recs, normalize(err)
}

// authorize loads the session persona. Personas owned by someone else are reported
// as missing so their existence is not revealed.
func (o *Orchestrator) authorize(ctx context.Context, sess Session) (*models.Persona, error) {
	if sess.UserID == 0 || sess.PersonaID == 0 {
		return nil, ErrNotFound
	}
	p, err := o.Personas.Get(ctx, sess.PersonaID)
	if err != nil {
		return nil, normalize(err)
	}
	if p.UserID != sess.UserID {
		logger.FromContext(ctx).Warn("persona ownership mismatch", "user_id", sess.UserID, "persona_id", sess.PersonaID)
		return nil, ErrNotFound
	}
	return p, nil
}

// generate runs one model call under the provider deadline.
func (o *Orchestrator) generate(ctx context.Context, instructions string, history []ChatMessage, prompt string) (string, error) {
	if o.gen == nil {
		return "", &ProviderError{Message: "no model provider configured"}
	}
	callCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := o.gen.Generate(callCtx, instructions, history, prompt)
	log := logger.FromContext(ctx)
	if err != nil {
		msg := "model call failed"
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			msg = "model call timed out"
		}
		log.Warn(msg, "error", err, "elapsed", time.Since(start))
		return "", &ProviderError{Message: msg, Err: err}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		log.Warn("model returned empty text", "elapsed", time.Since(start))
		return "", ErrEmptyGeneration
	}
	log.Debug("model call ok", "elapsed", time.Since(start), "chars", len(text))
	return text, nil
}
