package token

import (
	"context"
	"errors"
	"fmt"

	"feather-api/internal/user"
)

var (
	ErrInvalidAccessToken  = errors.New("invalid access token")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrExpiredRefreshToken = errors.New("expired refresh token")
)

type Status int

const (
	// StatusSuccess means the presented tokens were accepted unchanged.
	StatusSuccess Status = iota
	// StatusRefreshed means a new access token was minted and persisted.
	StatusRefreshed
)

// Outcome is the result of one orchestration pass. AccessToken and
// RefreshToken hold the now-live values; callers compare them against
// the presented ones to decide which response cookies to rewrite.
type Outcome struct {
	Status       Status
	User         *user.User
	AccessToken  string
	RefreshToken string
}

// Refresher decides, per authentication attempt, whether the presented
// token pair is accepted as-is, rotated, or rejected.
type Refresher struct {
	store     user.Store
	builder   *Builder
	validator *Validator
	locker    Locker
}

func NewRefresher(store user.Store, builder *Builder, validator *Validator, locker Locker) *Refresher {
	return &Refresher{
		store:     store,
		builder:   builder,
		validator: validator,
		locker:    locker,
	}
}

// Refresh runs the rotation state machine:
//
//  1. refresh token must belong to the user, else ErrInvalidRefreshToken
//  2. access token must belong to the user, else ErrInvalidAccessToken
//  3. expired refresh token is terminal: ErrExpiredRefreshToken, the
//     caller has to restart the federated login flow
//  4. expired access token with a live refresh token mints and persists
//     a new access token (StatusRefreshed)
//  5. otherwise the pair is accepted unchanged (StatusSuccess)
//
// Independently, a refresh token inside the rotation window is replaced
// proactively in the same pass. At most one store write happens per
// kind. Rotation for a user is serialized through the Locker; the
// user record is re-read under the lock, so a request that lost a
// rotation race fails the ownership check here instead of minting a
// second token pair.
func (r *Refresher) Refresh(ctx context.Context, accessToken, refreshToken string, u *user.User) (*Outcome, error) {
	unlock, err := r.locker.Lock(ctx, u.Email)
	if err != nil {
		return nil, err
	}
	defer unlock()

	u, err = r.store.FindByEmail(ctx, u.Email)
	if err != nil {
		return nil, err
	}

	if !r.validator.BelongsTo(refreshToken, u, Refresh) {
		return nil, ErrInvalidRefreshToken
	}
	if !r.validator.BelongsTo(accessToken, u, Access) {
		return nil, ErrInvalidAccessToken
	}
	if r.validator.IsExpired(refreshToken) {
		return nil, ErrExpiredRefreshToken
	}

	status := StatusSuccess
	liveAccess := accessToken
	if r.validator.IsExpired(accessToken) {
		liveAccess, err = r.rotate(ctx, u, Access)
		if err != nil {
			return nil, err
		}
		status = StatusRefreshed
	}

	liveRefresh := refreshToken
	if r.validator.IsNearExpiry(refreshToken) {
		liveRefresh, err = r.rotate(ctx, u, Refresh)
		if err != nil {
			return nil, err
		}
	}

	fresh, err := r.store.FindByEmail(ctx, u.Email)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Status:       status,
		User:         fresh,
		AccessToken:  liveAccess,
		RefreshToken: liveRefresh,
	}, nil
}

// rotate mints and persists a new token of the given kind. A store
// write failure propagates: the attempt must fail rather than hand the
// caller a token the store never recorded.
func (r *Refresher) rotate(ctx context.Context, u *user.User, kind Kind) (string, error) {
	minted, err := r.builder.Build(u, kind)
	if err != nil {
		return "", err
	}

	if kind == Access {
		err = r.store.UpdateAccessToken(ctx, u, minted)
	} else {
		err = r.store.UpdateRefreshToken(ctx, u, minted)
	}
	if err != nil {
		return "", fmt.Errorf("token: persist rotated %s: %w", kind, err)
	}
	return minted, nil
}
