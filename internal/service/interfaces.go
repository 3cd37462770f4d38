package service

import "context"

// ImageStore persists a decoded image and returns a retrievable URL.
type ImageStore interface {
	StoreDataURI(ctx context.Context, dataURI string) (string, error)
}
