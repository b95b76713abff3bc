package platform

import (
	"fmt"

	"github.com/aretw0/fieldboard/pkg/adapters/copilot"
	"github.com/aretw0/fieldboard/pkg/adapters/fs"
	"github.com/aretw0/fieldboard/pkg/adapters/memory"
	"github.com/aretw0/fieldboard/pkg/board"
	"github.com/aretw0/fieldboard/pkg/core"
)

// OpenStore returns the configured store adapter.
func OpenStore(opts ...Option) (core.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o.openStore()
}

func (o *options) openStore() (core.Store, error) {
	if o.store != nil {
		return o.store, nil
	}

	switch o.adapter {
	case AdapterMemory:
		return memory.NewStore(), nil
	case AdapterFS:
		return fs.NewStore(fs.Config{
			Path:    o.path,
			Pattern: o.watchPattern,
			Logger:  o.logger,
		})
	case AdapterCopilot:
		return copilot.NewClient(copilot.Config{
			BaseURL: o.baseURL,
			Token:   o.token,
			Logger:  o.logger,
		})
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownAdapter, o.adapter)
	}
}

// New opens the configured store and returns a board backed by it.
// The board still needs Activate before use.
func New(opts ...Option) (*board.Board, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if err := o.schema.Validate(); err != nil {
		return nil, err
	}

	store, err := o.openStore()
	if err != nil {
		return nil, err
	}

	var boardOpts []board.Option
	boardOpts = append(boardOpts, board.WithSchema(o.schema))
	if o.logger != nil {
		boardOpts = append(boardOpts, board.WithLogger(o.logger))
	}
	if o.persistTimeout > 0 {
		boardOpts = append(boardOpts, board.WithPersistTimeout(o.persistTimeout))
	}
	return board.New(store, boardOpts...), nil
}
