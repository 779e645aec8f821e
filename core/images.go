package core

import "context"

// NoImageStore preserves the privacy invariant: the at-stake photo is
// never stored server-side, so every lookup reports not found and the
// exposure path depends on the owner's session supplying the bytes.
type NoImageStore struct{}

var _ ImageStore = NoImageStore{}

func (NoImageStore) GetImage(ctx context.Context, key string) (*Image, error) {
	return nil, ErrImageNotFound
}

func (NoImageStore) PurgeImage(ctx context.Context, key string) error {
	return nil
}
