package domain

import "context"

// DeliveryRepo defines the interface for the delivery log database.
// The log remembers every chapter notification that was sent, so a lost
// or reset cache snapshot cannot cause the same chapter to be announced
// twice.
type DeliveryRepo interface {
	// Delivered returns the chapters already announced for a novel, as a
	// map of chapter number to webhook message id.
	Delivered(ctx context.Context, novelID string) (map[float64]string, error)

	// Record upserts a delivery entry.
	Record(ctx context.Context, delivery Delivery) error
}

// Delivery is one row of the delivery log
type Delivery struct {
	NovelID       string
	ChapterNumber float64
	MessageID     string
	SentAt        string
}
