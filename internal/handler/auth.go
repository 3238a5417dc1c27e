package handler

import (
	"context"
	"fmt"
	"strings"

	"cardapio-backend/internal/api"
	"cardapio-backend/internal/credential"
	"cardapio-backend/internal/model"
	"cardapio-backend/internal/store"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
)

const invalidCredentials = "invalid username or password"

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login is a stateless credential check. A reached decision is always a
// 200; the password field never leaves this handler.
func (h *Handler) Login(ctx context.Context, req *api.Request) (*api.Response, error) {
	var body loginRequest
	if err := req.Bind(&body); err != nil {
		return nil, err
	}
	log := zerolog.Ctx(ctx)

	coll, err := h.collection(ctx, store.Users)
	if err != nil {
		return nil, err
	}
	candidates, err := coll.Find(ctx, loginFilter(body.Username))
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	for _, user := range candidates {
		if active, ok := model.Bool(user, "active"); ok && !active {
			continue
		}
		ok, scheme := credential.Verify(body.Password, model.String(user, "password"))
		if !ok {
			continue
		}
		if scheme.NeedsMigration() {
			h.upgradeCredential(ctx, coll, user, body.Password, scheme)
		}
		log.Info().Str("username", model.String(user, "username")).Msg("login succeeded")
		return api.OK(api.H{"success": true, "user": model.Public(user)}), nil
	}

	log.Info().Int("candidates", len(candidates)).Msg("login rejected")
	return api.OK(api.H{"success": false, "message": invalidCredentials}), nil
}

// loginFilter special-cases "admin": it matches the admin username or any
// account with the admin role. Other identifiers match username or phone.
func loginFilter(identifier string) bson.M {
	id := strings.TrimSpace(identifier)
	if strings.EqualFold(id, "admin") {
		return bson.M{"$or": bson.A{
			bson.M{"username": "admin"},
			bson.M{"role": "admin"},
		}}
	}
	return bson.M{"$or": bson.A{
		bson.M{"username": id},
		bson.M{"phone": id},
	}}
}

// upgradeCredential rewrites a legacy stored password as bcrypt. Failure
// is logged and does not affect the login.
func (h *Handler) upgradeCredential(ctx context.Context, coll store.Collection, user bson.M, password string, scheme credential.Scheme) {
	log := zerolog.Ctx(ctx).Warn().
		Str("username", model.String(user, "username")).
		Str("scheme", scheme.String())

	hashed, err := credential.Hash(password)
	if err != nil {
		log.Err(err).Msg("legacy credential not migrated")
		return
	}
	_, err = coll.UpsertOne(ctx, bson.M{"_id": user["_id"]}, bson.M{
		"password":           hashed,
		"passwordMigratedAt": h.now().UTC(),
	}, nil)
	if err != nil {
		log.Err(err).Msg("legacy credential not migrated")
		return
	}
	log.Msg("legacy credential migrated to bcrypt")
}
