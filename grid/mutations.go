package grid

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fulldump/gridadmin/record"
)

// Create inserts a record in the active collection and reloads it. The
// identity of the new record is returned.
func (e *Engine) Create(ctx context.Context, payload map[string]any) (string, error) {

	d, batch, err := e.activeDescriptor()
	if err != nil {
		return "", err
	}

	var sample record.Record
	if len(batch) > 0 {
		sample = batch[0]
	}
	payload = coerce(d, payload, sample)
	if id, ok := payload["_id"]; ok && (id == nil || id == "") {
		delete(payload, "_id")
	}

	id, err := e.source.Create(ctx, d.Endpoint, payload)
	if err != nil {
		e.notify(NoticeSaveFailure, LevelDanger, "Could not create record: "+err.Error())
		return "", fmt.Errorf("create in '%s': %w", d.Name, err)
	}

	e.resolver.Invalidate(d.Name)
	e.notify(NoticeCreated, LevelSuccess, "Record created")
	e.logger.Info("record created", zap.String("collection", d.Name), zap.String("id", id))

	return id, e.LoadCollection(ctx, d.Name)
}

func (e *Engine) Update(ctx context.Context, id string, payload map[string]any) error {

	if id == "" {
		return ErrEmptyID
	}

	d, batch, err := e.activeDescriptor()
	if err != nil {
		return err
	}

	payload = coerce(d, payload, findByID(batch, id))
	delete(payload, "_id")

	err = e.source.Update(ctx, d.Endpoint, id, payload)
	if err != nil {
		e.notify(NoticeSaveFailure, LevelDanger, "Could not update record: "+err.Error())
		return fmt.Errorf("update '%s' in '%s': %w", id, d.Name, err)
	}

	e.resolver.Invalidate(d.Name)
	e.notify(NoticeUpdated, LevelSuccess, "Record updated")
	e.logger.Info("record updated", zap.String("collection", d.Name), zap.String("id", id))

	return e.LoadCollection(ctx, d.Name)
}

func (e *Engine) Delete(ctx context.Context, id string) error {

	if id == "" {
		return ErrEmptyID
	}

	d, _, err := e.activeDescriptor()
	if err != nil {
		return err
	}

	err = e.source.Delete(ctx, d.Endpoint, id)
	if err != nil {
		e.notify(NoticeSaveFailure, LevelDanger, "Could not delete record: "+err.Error())
		return fmt.Errorf("delete '%s' in '%s': %w", id, d.Name, err)
	}

	e.resolver.Invalidate(d.Name)
	e.notify(NoticeDeleted, LevelSuccess, "Record deleted")
	e.logger.Info("record deleted", zap.String("collection", d.Name), zap.String("id", id))

	return e.LoadCollection(ctx, d.Name)
}
