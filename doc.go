// Package fieldboard is the composition root of the fieldboard library.
//
// fieldboard keeps a local, render-facing view of a project board (work items,
// groups, hidden groups, users) in sync with a remote key-value custom-field
// store. Mutations are applied locally at once and persisted in the
// background; every entity carries a commit status so failures can be shown
// and retried.
//
// Layout:
//
//   - pkg/core: domain types, the Store port, session and sentinel errors.
//   - pkg/record: field naming convention, payload encoding and tolerant decoding.
//   - pkg/bridge: result-bearing persistence tasks.
//   - pkg/seed: idempotent creation of the default groups.
//   - pkg/directory: merging of client and internal users.
//   - pkg/board: the local state cache and its mutation API.
//   - pkg/adapters: memory, fs (JSON file) and copilot (HTTP) stores.
//
// Usage:
//
//	b, err := fieldboard.New(fieldboard.WithAdapter(fieldboard.AdapterFS))
//	if err != nil {
//		return err
//	}
//	b.Activate(ctx, session)
//	item, err := b.CreateItem(ctx, core.ItemDraft{Title: "Ship it"})
//	...
//	b.Wait(ctx)
package fieldboard
