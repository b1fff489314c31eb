package app

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"skillbridge/internal/common"
	"skillbridge/internal/domain/application"
	"skillbridge/internal/domain/auth"
	"skillbridge/internal/domain/chat"
	"skillbridge/internal/domain/profile"
	"skillbridge/internal/domain/task"
	"skillbridge/internal/livequery"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingNotifier struct {
	mu     sync.Mutex
	topics []string
}

func (n *recordingNotifier) Publish(_ context.Context, topic string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.topics = append(n.topics, topic)
}

func (n *recordingNotifier) Subscribe(topic string) livequery.Events {
	return noopEvents{}
}

func (n *recordingNotifier) published() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.topics...)
}

type noopEvents struct{}

func (noopEvents) C() <-chan struct{} { return nil }
func (noopEvents) Close()             {}

type fakeProfileRepo struct {
	mu      sync.Mutex
	byUID   map[common.UUID]*profile.Profile
	upserts int
	failGet bool
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byUID: make(map[common.UUID]*profile.Profile)}
}

func (r *fakeProfileRepo) GetByUID(ctx context.Context, uid common.UUID) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGet {
		return nil, common.NewError(common.CodeUnavailable, "profile store unreachable", nil)
	}
	p := r.byUID[uid]
	if p == nil {
		return nil, common.NewError(common.CodeNotFound, "profile not found", nil)
	}
	copy := *p
	return &copy, nil
}

func (r *fakeProfileRepo) Upsert(ctx context.Context, p profile.Profile) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	if existing := r.byUID[p.UID]; existing != nil {
		existing.UpdatedAt = p.UpdatedAt
		copy := *existing
		return &copy, nil
	}
	stored := p
	r.byUID[p.UID] = &stored
	copy := stored
	return &copy, nil
}

func (r *fakeProfileRepo) Update(ctx context.Context, p profile.Profile) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byUID[p.UID] == nil {
		return nil, common.NewError(common.CodeNotFound, "profile not found", nil)
	}
	stored := p
	r.byUID[p.UID] = &stored
	copy := stored
	return &copy, nil
}

type fakeTaskRepo struct {
	mu    sync.Mutex
	byID  map[common.UUID]*task.Task
	order []common.UUID
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{byID: make(map[common.UUID]*task.Task)}
}

func (r *fakeTaskRepo) Create(ctx context.Context, t task.Task) (*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = common.NewUUID()
	t.CreatedAt = time.Now().UTC()
	stored := t
	r.byID[t.ID] = &stored
	r.order = append(r.order, t.ID)
	copy := stored
	return &copy, nil
}

func (r *fakeTaskRepo) GetByID(ctx context.Context, id common.UUID) (*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.byID[id]
	if t == nil {
		return nil, common.NewError(common.CodeNotFound, "task not found", nil)
	}
	copy := *t
	return &copy, nil
}

func (r *fakeTaskRepo) List(ctx context.Context, filter task.Filter, limit, offset int) ([]task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []task.Task
	for i := len(r.order) - 1; i >= 0; i-- {
		t := r.byID[r.order[i]]
		if filter.Difficulty != "" && t.Difficulty != filter.Difficulty {
			continue
		}
		if len(filter.Skills) > 0 && !overlaps(t.Skills, filter.Skills) {
			continue
		}
		items = append(items, *t)
	}
	if offset >= len(items) {
		return nil, nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items, nil
}

func (r *fakeTaskRepo) ListByPoster(ctx context.Context, posterID common.UUID) ([]task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []task.Task
	for i := len(r.order) - 1; i >= 0; i-- {
		t := r.byID[r.order[i]]
		if t.PostedBy == posterID {
			items = append(items, *t)
		}
	}
	return items, nil
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

type taskApplicant struct {
	taskID      common.UUID
	applicantID common.UUID
}

type fakeApplicationRepo struct {
	mu    sync.Mutex
	byID  map[common.UUID]*application.Application
	pairs map[taskApplicant]common.UUID
	tasks *fakeTaskRepo

	// afterGet runs after every GetByID, letting a test change stored state
	// between a caller's read and its follow-up write.
	afterGet func()
}

func newFakeApplicationRepo(tasks *fakeTaskRepo) *fakeApplicationRepo {
	return &fakeApplicationRepo{
		byID:  make(map[common.UUID]*application.Application),
		pairs: make(map[taskApplicant]common.UUID),
		tasks: tasks,
	}
}

func (r *fakeApplicationRepo) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := taskApplicant{taskID: app.TaskID, applicantID: app.ApplicantID}
	if _, ok := r.pairs[key]; ok {
		return nil, common.NewError(common.CodeConflict, "application already exists", nil)
	}
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.AppliedAt = now
	app.UpdatedAt = now
	stored := app
	r.byID[app.ID] = &stored
	r.pairs[key] = app.ID
	copy := stored
	return &copy, nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	r.mu.Lock()
	app := r.byID[id]
	var copy application.Application
	if app != nil {
		copy = *app
	}
	r.mu.Unlock()
	if r.afterGet != nil {
		r.afterGet()
	}
	if app == nil {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	return &copy, nil
}

func (r *fakeApplicationRepo) forceStatus(id common.UUID, status application.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if app := r.byID[id]; app != nil {
		app.Status = status
	}
}

func (r *fakeApplicationRepo) FindByTaskAndApplicant(ctx context.Context, taskID, applicantID common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.pairs[taskApplicant{taskID: taskID, applicantID: applicantID}]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	copy := *r.byID[id]
	return &copy, nil
}

func (r *fakeApplicationRepo) ListByApplicant(ctx context.Context, applicantID common.UUID) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []application.Application
	for _, app := range r.byID {
		if app.ApplicantID == applicantID {
			items = append(items, *app)
		}
	}
	return items, nil
}

func (r *fakeApplicationRepo) ListByTaskOwner(ctx context.Context, posterID common.UUID) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []application.Application
	for _, app := range r.byID {
		t, err := r.tasks.GetByID(ctx, app.TaskID)
		if err != nil {
			continue
		}
		if t.PostedBy == posterID {
			items = append(items, *app)
		}
	}
	return items, nil
}

func (r *fakeApplicationRepo) UpdateStatus(ctx context.Context, id common.UUID, status application.Status) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app := r.byID[id]
	if app == nil {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	if app.Status != application.StatusPending {
		if app.Status == status {
			copy := *app
			return &copy, nil
		}
		return nil, common.NewError(common.CodeInvalidTransition, "application status is final", nil)
	}
	app.Status = status
	app.UpdatedAt = time.Now().UTC()
	copy := *app
	return &copy, nil
}

type fakeChatRepo struct {
	mu       sync.Mutex
	chats    map[string]*chat.Chat
	messages map[string][]chat.Message
	ensures  int
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:    make(map[string]*chat.Chat),
		messages: make(map[string][]chat.Message),
	}
}

func (r *fakeChatRepo) Ensure(ctx context.Context, c chat.Chat) (*chat.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensures++
	if existing := r.chats[c.ID]; existing != nil {
		copy := *existing
		return &copy, nil
	}
	stored := c
	r.chats[c.ID] = &stored
	copy := stored
	return &copy, nil
}

func (r *fakeChatRepo) GetByID(ctx context.Context, id string) (*chat.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.chats[id]
	if c == nil {
		return nil, common.NewError(common.CodeNotFound, "chat not found", nil)
	}
	copy := *c
	return &copy, nil
}

func (r *fakeChatRepo) ListByParticipant(ctx context.Context, uid common.UUID) ([]chat.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []chat.Chat
	for _, c := range r.chats {
		if c.Participant(uid) {
			items = append(items, *c)
		}
	}
	return items, nil
}

func (r *fakeChatRepo) Touch(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.chats[id]
	if c == nil {
		return common.NewError(common.CodeNotFound, "chat not found", nil)
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeChatRepo) AppendMessage(ctx context.Context, m chat.Message) (*chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = common.NewUUID()
	m.CreatedAt = time.Now().UTC()
	r.messages[m.ChatID] = append(r.messages[m.ChatID], m)
	copy := m
	return &copy, nil
}

func (r *fakeChatRepo) ListMessages(ctx context.Context, chatID string, limit, offset int) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := append([]chat.Message(nil), r.messages[chatID]...)
	if offset >= len(items) {
		return nil, nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items, nil
}

type fakeAccountRepo struct {
	mu      sync.Mutex
	byEmail map[string]*auth.Account
	byID    map[common.UUID]*auth.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		byEmail: make(map[string]*auth.Account),
		byID:    make(map[common.UUID]*auth.Account),
	}
}

func (r *fakeAccountRepo) Create(ctx context.Context, account auth.Account) (*auth.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account.ID = common.NewUUID()
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	stored := account
	r.byEmail[account.Email] = &stored
	r.byID[account.ID] = &stored
	copy := stored
	return &copy, nil
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id common.UUID) (*auth.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.byID[id]
	if account == nil {
		return nil, common.NewError(common.CodeNotFound, "account not found", nil)
	}
	copy := *account
	return &copy, nil
}

func (r *fakeAccountRepo) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.byEmail[email]
	if account == nil {
		return nil, common.NewError(common.CodeNotFound, "account not found", nil)
	}
	copy := *account
	return &copy, nil
}

func (r *fakeAccountRepo) UpdatePassword(ctx context.Context, id common.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.byID[id]
	if account == nil {
		return common.NewError(common.CodeNotFound, "account not found", nil)
	}
	account.PasswordHash = passwordHash
	account.UpdatedAt = time.Now().UTC()
	return nil
}

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]auth.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[string]auth.RefreshToken)}
}

func (r *fakeRefreshTokenRepo) Store(ctx context.Context, token auth.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.Token] = token
	return nil
}

func (r *fakeRefreshTokenRepo) GetByToken(ctx context.Context, token string) (*auth.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.tokens[token]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "refresh token not found", nil)
	}
	copy := value
	return &copy, nil
}

func (r *fakeRefreshTokenRepo) Revoke(ctx context.Context, token string, revokedAtUnix int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.tokens[token]
	if !ok {
		return common.NewError(common.CodeNotFound, "refresh token not found", nil)
	}
	revokedAt := time.Unix(revokedAtUnix, 0).UTC()
	value.RevokedAt = &revokedAt
	r.tokens[token] = value
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAll(ctx context.Context, accountID common.UUID, revokedAtUnix int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	revokedAt := time.Unix(revokedAtUnix, 0).UTC()
	for key, value := range r.tokens {
		if value.AccountID == accountID {
			value.RevokedAt = &revokedAt
			r.tokens[key] = value
		}
	}
	return nil
}

type fakePasswordResetRepo struct {
	mu     sync.Mutex
	resets map[common.UUID]auth.PasswordReset
}

func newFakePasswordResetRepo() *fakePasswordResetRepo {
	return &fakePasswordResetRepo{resets: make(map[common.UUID]auth.PasswordReset)}
}

func (r *fakePasswordResetRepo) Upsert(ctx context.Context, reset auth.PasswordReset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets[reset.AccountID] = reset
	return nil
}

func (r *fakePasswordResetRepo) GetByToken(ctx context.Context, token string) (*auth.PasswordReset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reset := range r.resets {
		if reset.Token == token {
			copy := reset
			return &copy, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "reset token not found", nil)
}

func (r *fakePasswordResetRepo) Delete(ctx context.Context, accountID common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.resets, accountID)
	return nil
}
