package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-trip-sync/internal/store"
	"github.com/MKhiriev/go-trip-sync/models"
)

// outcomeStatus classifies the result of applying one operation.
type outcomeStatus int

const (
	statusApplied outcomeStatus = iota
	// statusAlreadyApplied covers idempotent replays of creates and
	// updates that converge on the stored state.
	statusAlreadyApplied
	statusConflict
	statusFailed
)

type outcome struct {
	status        outcomeStatus
	serverVersion models.EntityVersion
	err           error
}

func applied() outcome        { return outcome{status: statusApplied} }
func alreadyApplied() outcome { return outcome{status: statusAlreadyApplied} }
func failed(err error) outcome {
	return outcome{status: statusFailed, err: err}
}

// errStaleOperation aborts an update inside the repository transaction when
// the stored record is newer than the operation.
var errStaleOperation = errors.New("operation is older than the stored record")

// dispatcher routes one operation to the handler for its kind and entity
// type. Each handler reports an outcome instead of an error so that a single
// bad operation never aborts a batch.
type dispatcher struct {
	checklists store.ChecklistRepository
	ids        IDGenerator
	now        func() time.Time
}

func (d *dispatcher) dispatch(ctx context.Context, userID int64, op models.Operation) outcome {
	switch op.EntityType {
	case models.EntityContainer:
		switch op.Kind {
		case models.OperationCreate:
			return d.createContainer(ctx, userID, op)
		case models.OperationUpdate:
			return d.updateContainer(ctx, userID, op)
		case models.OperationDelete:
			return d.deleteContainer(ctx, userID, op)
		}
	case models.EntityItem:
		switch op.Kind {
		case models.OperationCreate:
			return d.createItem(ctx, userID, op)
		case models.OperationUpdate:
			return d.updateItem(ctx, userID, op)
		case models.OperationDelete:
			return d.deleteItem(ctx, userID, op)
		}
	}

	return failed(fmt.Errorf("%w: %s %s", ErrUnsupportedOperation, op.Kind, op.EntityType))
}

func (d *dispatcher) createContainer(ctx context.Context, userID int64, op models.Operation) outcome {
	fields, ok := op.ContainerPayload()
	if !ok {
		return failed(fmt.Errorf("%w: container create without container payload", ErrValidation))
	}

	now := d.now()
	clientTimestamp := op.Timestamp
	container := models.Container{
		ID:               d.ids.Generate(),
		UserID:           userID,
		ClientIdentifier: op.ClientIdentifier(),
		ClientTimestamp:  &clientTimestamp,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	container.Apply(*fields)

	_, created, err := d.checklists.CreateContainer(ctx, container)
	if err != nil {
		return failed(err)
	}
	if !created {
		return alreadyApplied()
	}

	return applied()
}

func (d *dispatcher) createItem(ctx context.Context, userID int64, op models.Operation) outcome {
	fields, ok := op.ItemPayload()
	if !ok || fields.ContainerID == nil {
		return failed(fmt.Errorf("%w: item create without container reference", ErrValidation))
	}

	now := d.now()
	clientTimestamp := op.Timestamp
	item := models.Item{
		ID:               d.ids.Generate(),
		UserID:           userID,
		ClientIdentifier: op.ClientIdentifier(),
		Quantity:         1,
		ClientTimestamp:  &clientTimestamp,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	item.Apply(*fields)

	containerRef := models.NewEntityRef(op.ClientID, *fields.ContainerID)
	_, created, err := d.checklists.CreateItem(ctx, userID, containerRef, item)
	if errors.Is(err, store.ErrContainerNotFound) {
		return failed(fmt.Errorf("%w: %w", ErrEntityNotFound, err))
	}
	if err != nil {
		return failed(err)
	}
	if !created {
		return alreadyApplied()
	}

	return applied()
}

// updateContainer applies the payload when the stored record is not newer
// than the operation. The comparison and the write happen under one row lock.
func (d *dispatcher) updateContainer(ctx context.Context, userID int64, op models.Operation) outcome {
	fields, ok := op.ContainerPayload()
	if !ok {
		return failed(fmt.Errorf("%w: container update without container payload", ErrValidation))
	}

	current, err := d.checklists.UpdateContainer(ctx, userID, op.EntityRef(),
		func(current models.Container) (models.Container, bool, error) {
			if current.UpdatedAt.After(op.Timestamp) {
				return current, false, errStaleOperation
			}
			next := current
			next.Apply(*fields)
			next.UpdatedAt = d.now()
			return next, true, nil
		})

	switch {
	case errors.Is(err, errStaleOperation):
		return outcome{status: statusConflict, serverVersion: models.EntityVersion{Container: &current}}
	case errors.Is(err, store.ErrContainerNotFound):
		return failed(fmt.Errorf("%w: %w", ErrEntityNotFound, err))
	case err != nil:
		return failed(err)
	}

	return applied()
}

// updateItem behaves like updateContainer except that a stale update which
// only re-marks an already completed item converges instead of conflicting.
func (d *dispatcher) updateItem(ctx context.Context, userID int64, op models.Operation) outcome {
	fields, ok := op.ItemPayload()
	if !ok {
		return failed(fmt.Errorf("%w: item update without item payload", ErrValidation))
	}

	converged := false
	current, err := d.checklists.UpdateItem(ctx, userID, op.EntityRef(),
		func(current models.Item) (models.Item, bool, error) {
			if current.UpdatedAt.After(op.Timestamp) {
				if fields.ConvergesOnCompletion(current) {
					converged = true
					return current, false, nil
				}
				return current, false, errStaleOperation
			}
			next := current
			next.Apply(*fields)
			next.UpdatedAt = d.now()
			return next, true, nil
		})

	switch {
	case errors.Is(err, errStaleOperation):
		return outcome{status: statusConflict, serverVersion: models.EntityVersion{Item: &current}}
	case errors.Is(err, store.ErrItemNotFound):
		return failed(fmt.Errorf("%w: %w", ErrEntityNotFound, err))
	case err != nil:
		return failed(err)
	case converged:
		return alreadyApplied()
	}

	return applied()
}

// deleteContainer removes the container. Deleting a record that is already
// gone, or was never visible, is reported as applied.
func (d *dispatcher) deleteContainer(ctx context.Context, userID int64, op models.Operation) outcome {
	deleted, err := d.checklists.DeleteContainer(ctx, userID, op.EntityRef(), d.now())
	if err != nil {
		return failed(err)
	}
	if !deleted {
		return alreadyApplied()
	}

	return applied()
}

func (d *dispatcher) deleteItem(ctx context.Context, userID int64, op models.Operation) outcome {
	deleted, err := d.checklists.DeleteItem(ctx, userID, op.EntityRef(), d.now())
	if err != nil {
		return failed(err)
	}
	if !deleted {
		return alreadyApplied()
	}

	return applied()
}
