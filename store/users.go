// path: store/users.go
package store

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/PaoloBrandonE/Denuncia-app/models"
)

func (m *Mongo) CreateUser(ctx context.Context, u models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	octx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	_, err := m.users().InsertOne(octx, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return storeErr("insert user", err)
	}
	return nil
}

func (m *Mongo) GetUser(ctx context.Context, id string) (models.User, error) {
	octx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var u models.User
	err := m.users().FindOne(octx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, storeErr("read user", err)
	}
	return u, nil
}

func (m *Mongo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	octx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var u models.User
	err := m.users().FindOne(octx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, storeErr("read user", err)
	}
	return u, nil
}
