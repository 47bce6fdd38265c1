package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"notekeeper/internal/notes/adapters/storage"
	"notekeeper/internal/notes/domain/entities"
	"notekeeper/pkg/logger"
)

// SessionKey - ключ хранилища с текущей сессией.
const SessionKey = "AUTH_SESSION_V1"

// ErrSignOutFailed возвращается, если сессию не удалось удалить.
var ErrSignOutFailed = errors.New("sign out failed")

// Константы для логирования.
const (
	LogSignedIn          = "signed in"
	LogSignedOut         = "signed out"
	LogSessionInvalid    = "stored session is invalid"
	LogFailedToSaveToken = "failed to save session"
)

type session struct {
	IDToken string `json:"idToken"`
}

// Option настраивает SessionProvider.
type Option func(*SessionProvider)

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(p *SessionProvider) {
		p.now = now
	}
}

// SessionProvider - внешняя возможность аутентификации:
// текущая личность, токен сессии и выход.
type SessionProvider struct {
	store      *storage.Adapter
	signingKey []byte
	now        func() time.Time
}

// NewSessionProvider создает провайдер сессии.
// signingKey может быть пустым: тогда подпись токена проверяет только API.
func NewSessionProvider(store *storage.Adapter, signingKey string, opts ...Option) *SessionProvider {
	p := &SessionProvider{
		store:      store,
		signingKey: []byte(signingKey),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SignIn проверяет ID-токен и сохраняет его как текущую сессию.
func (p *SessionProvider) SignIn(ctx context.Context, idToken string) (*entities.Identity, error) {
	claims, err := ParseToken(idToken, p.signingKey, p.now())
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	if !p.store.Set(ctx, SessionKey, session{IDToken: idToken}) {
		logger.Log(ctx).Error(ctx, LogFailedToSaveToken)
		return nil, fmt.Errorf("sign in: %w", entities.ErrStorageWriteFailed)
	}

	identity := claims.Identity()
	logger.Log(ctx).Info(ctx, LogSignedIn, zap.String("user_id", identity.UserID))
	return identity, nil
}

// claims возвращает claims действующей сессии или ErrNoSession.
func (p *SessionProvider) claims(ctx context.Context) (string, *Claims, error) {
	var s session
	if !p.store.Get(ctx, SessionKey, &s) || s.IDToken == "" {
		return "", nil, entities.ErrNoSession
	}

	claims, err := ParseToken(s.IDToken, p.signingKey, p.now())
	if err != nil {
		logger.Log(ctx).Warn(ctx, LogSessionInvalid, zap.Error(err))
		return "", nil, fmt.Errorf("%w: %w", entities.ErrNoSession, err)
	}
	return s.IDToken, claims, nil
}

// CurrentIdentity возвращает пользователя текущей сессии.
func (p *SessionProvider) CurrentIdentity(ctx context.Context) (*entities.Identity, error) {
	_, claims, err := p.claims(ctx)
	if err != nil {
		return nil, err
	}
	return claims.Identity(), nil
}

// SessionToken возвращает ID-токен текущей сессии.
func (p *SessionProvider) SessionToken(ctx context.Context) (string, error) {
	token, _, err := p.claims(ctx)
	return token, err
}

// SignOut удаляет сессию. Ошибка возвращается, если сессия осталась в хранилище.
func (p *SessionProvider) SignOut(ctx context.Context) error {
	p.store.Remove(ctx, SessionKey)

	var s session
	if p.store.Get(ctx, SessionKey, &s) {
		return ErrSignOutFailed
	}

	logger.Log(ctx).Info(ctx, LogSignedOut)
	return nil
}

// TokenSource возвращает источник bearer-токенов для HTTP-клиента.
// Токен кэшируется до истечения срока действия.
func (p *SessionProvider) TokenSource(ctx context.Context) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, &sessionTokenSource{ctx: ctx, provider: p})
}

type sessionTokenSource struct {
	ctx      context.Context
	provider *SessionProvider
}

// Token implements oauth2.TokenSource.
func (s *sessionTokenSource) Token() (*oauth2.Token, error) {
	token, claims, err := s.provider.claims(s.ctx)
	if err != nil {
		return nil, err
	}

	tok := &oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}
	if claims.ExpiresAt != nil {
		tok.Expiry = claims.ExpiresAt.Time
	}
	return tok, nil
}
