package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/erazemk/crafts/internal/model"
)

// DefaultCollection is the collection crafts are stored in.
const DefaultCollection = "crafts"

const driverMongo = "mongo"

// Mongo stores crafts in a MongoDB collection.
type Mongo struct {
	coll *mongo.Collection
}

// NewMongo returns a store backed by the named collection of database.
func NewMongo(database *mongo.Database, collection string) *Mongo {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Mongo{coll: database.Collection(collection)}
}

// List returns all crafts in natural order.
func (s *Mongo) List(ctx context.Context) (crafts []model.Craft, err error) {
	defer func(start time.Time) { observe(driverMongo, "find", start, err) }(time.Now())

	cur, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("listing crafts: %w", err)
	}
	defer cur.Close(ctx)

	crafts = []model.Craft{}
	if err := cur.All(ctx, &crafts); err != nil {
		return nil, fmt.Errorf("decoding crafts: %w", err)
	}
	return crafts, nil
}

// Get returns a craft by id.
func (s *Mongo) Get(ctx context.Context, id string) (c *model.Craft, err error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	defer func(start time.Time) { observe(driverMongo, "findOne", start, err) }(time.Now())

	c = &model.Craft{}
	err = s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting craft: %w", err)
	}
	return c, nil
}

// Create inserts a craft with a fresh ObjectID.
func (s *Mongo) Create(ctx context.Context, c model.Craft) (_ *model.Craft, err error) {
	defer func(start time.Time) { observe(driverMongo, "insertOne", start, err) }(time.Now())

	c.ID = primitive.NewObjectID()
	if c.Supplies == nil {
		c.Supplies = []string{}
	}
	if _, err := s.coll.InsertOne(ctx, c); err != nil {
		return nil, fmt.Errorf("creating craft: %w", err)
	}
	return &c, nil
}

// Update sets all mutable fields of a craft and returns the new version.
func (s *Mongo) Update(ctx context.Context, id string, c model.Craft) (updated *model.Craft, err error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	defer func(start time.Time) { observe(driverMongo, "findOneAndUpdate", start, err) }(time.Now())

	if c.Supplies == nil {
		c.Supplies = []string{}
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: c.Name},
		{Key: "image", Value: c.Image},
		{Key: "description", Value: c.Description},
		{Key: "supplies", Value: c.Supplies},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	updated = &model.Craft{}
	err = s.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("updating craft: %w", err)
	}
	return updated, nil
}

// Delete removes a craft and returns the removed document.
func (s *Mongo) Delete(ctx context.Context, id string) (deleted *model.Craft, err error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	defer func(start time.Time) { observe(driverMongo, "findOneAndDelete", start, err) }(time.Now())

	deleted = &model.Craft{}
	err = s.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(deleted)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("deleting craft: %w", err)
	}
	return deleted, nil
}

// Ping checks the primary is reachable.
func (s *Mongo) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, readpref.Primary())
}
