package repo

import (
	"context"
	"errors"
	"fmt"

	dom "userapi/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// userDocument is the persisted shape of a user in the collection.
// _id is a primitive.ObjectID for hex ids and a plain string otherwise.
type userDocument struct {
	ID      any    `bson:"_id"`
	Name    string `bson:"name"`
	Email   string `bson:"email"`
	Phone   string `bson:"phone"`
	Address string `bson:"address"`
}

func toDocument(u dom.User) userDocument {
	return userDocument{ID: docID(u.ID), Name: u.Name, Email: u.Email, Phone: u.Phone, Address: u.Address}
}

func (d userDocument) toDomain() dom.User {
	return dom.User{ID: idString(d.ID), Name: d.Name, Email: d.Email, Phone: d.Phone, Address: d.Address}
}

// docID maps an API id onto the stored _id value.
func docID(id string) any {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

func idString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

func byID(id string) bson.D {
	return bson.D{{Key: "_id", Value: docID(id)}}
}

// MongoUserRepo implements UserRepo over a MongoDB collection.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo returns a new MongoUserRepo.
func NewMongoUserRepo(coll *mongo.Collection) *MongoUserRepo {
	return &MongoUserRepo{coll: coll}
}

// FindAll returns every document in natural order.
func (r *MongoUserRepo) FindAll(ctx context.Context) ([]dom.User, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, storageErr("find users", err)
	}
	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storageErr("decode users", err)
	}
	list := make([]dom.User, 0, len(docs))
	for _, d := range docs {
		list = append(list, d.toDomain())
	}
	return list, nil
}

func (r *MongoUserRepo) FindByID(ctx context.Context, id string) (dom.User, bool, error) {
	var d userDocument
	err := r.coll.FindOne(ctx, byID(id)).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return dom.User{}, false, nil
	}
	if err != nil {
		return dom.User{}, false, storageErr("find user", err)
	}
	return d.toDomain(), true, nil
}

func (r *MongoUserRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, byID(id), options.Count().SetLimit(1))
	if err != nil {
		return false, storageErr("count user", err)
	}
	return n > 0, nil
}

// Save upserts the document. Generated ids are stored as ObjectIDs and
// returned as their hex form.
func (r *MongoUserRepo) Save(ctx context.Context, u dom.User) (dom.User, error) {
	if u.ID == "" {
		u.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.coll.ReplaceOne(ctx,
		byID(u.ID),
		toDocument(u),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return dom.User{}, storageErr("save user", err)
	}
	return u, nil
}

func (r *MongoUserRepo) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.coll.DeleteOne(ctx, byID(id)); err != nil {
		return storageErr("delete user", err)
	}
	return nil
}
