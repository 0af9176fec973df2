// internal/domain/order/repository.go
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrOrderNotFound is returned when no order matches the given key.
var ErrOrderNotFound = errors.New("order not found")

// Repository provides access to the order collection.
type Repository interface {
	Insert(ctx context.Context, o *Order) error
	GetByNumber(ctx context.Context, number string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, number, status string) error
	MarkPaidBySession(ctx context.Context, sessionID string, paidAt time.Time) (*Order, error)
}

type mongoRepository struct {
	collection *mongo.Collection
}

// NewRepository creates an order repository over a Mongo collection
func NewRepository(collection *mongo.Collection) Repository {
	return &mongoRepository{collection: collection}
}

func (r *mongoRepository) Insert(ctx context.Context, o *Order) error {
	if _, err := r.collection.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r *mongoRepository) GetByNumber(ctx context.Context, number string) (*Order, error) {
	var o Order
	err := r.collection.FindOne(ctx, bson.M{"_id": number}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &o, nil
}

// List returns all orders, most recent first.
func (r *mongoRepository) List(ctx context.Context) ([]Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func (r *mongoRepository) UpdateStatus(ctx context.Context, number, status string) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": number}, bson.M{
		"$set": bson.M{"status": status, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// MarkPaidBySession atomically promotes a pending order to paid. The
// filter includes the status so a replayed webhook matches nothing.
func (r *mongoRepository) MarkPaidBySession(ctx context.Context, sessionID string, paidAt time.Time) (*Order, error) {
	filter := bson.M{"payment_session_id": sessionID, "status": StatusPending}
	update := bson.M{"$set": bson.M{
		"status":     StatusPaid,
		"paid_at":    paidAt,
		"updated_at": paidAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var o Order
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to mark order paid: %w", err)
	}
	return &o, nil
}
