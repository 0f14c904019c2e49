// Package mongodb stores one document per user in a single collection.
// The email index speeds up lookups but is deliberately non-unique:
// uniqueness is enforced by the registry layer's existence check.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/habitflow/userhub/internal/domain/user"
)

const usersCollection = "users"

type UsersRepo struct {
	client *mongo.Client
	col    *mongo.Collection
}

func NewUsersRepo(ctx context.Context, uri, dbName string) (*UsersRepo, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))

	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	col := client.Database(dbName).Collection(usersCollection)

	r := &UsersRepo{client: client, col: col}

	if err := r.ensureIndexes(pingCtx); err != nil {
		// lookups still work without the index, just slower
		fmt.Println("mongodb index setup failed:", err)
	}

	return r, nil
}

func (r *UsersRepo) ensureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)

	return err
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.col.Find(ctx, bson.D{}, opts)

	if err != nil {
		return nil, err
	}

	defer cursor.Close(ctx)

	users := []user.User{}

	for cursor.Next(ctx) {
		var u user.User

		if err := cursor.Decode(&u); err != nil {
			return nil, err
		}

		users = append(users, u)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *UsersRepo) FindByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	// emails are stored lower-cased, so an exact match on the normalized
	// input is a case-insensitive lookup
	err := r.col.FindOne(ctx, bson.D{{Key: "email", Value: user.NormalizeEmail(email)}}).Decode(&u)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) Insert(ctx context.Context, u user.User) error {
	_, err := r.col.InsertOne(ctx, u)

	return err
}

func (r *UsersRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})

	if err != nil {
		return false, err
	}

	return res.DeletedCount > 0, nil
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

func (r *UsersRepo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return r.client.Disconnect(ctx)
}
