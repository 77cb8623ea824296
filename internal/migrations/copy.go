// Package migrations moves fish records between store backends.
package migrations

import (
	"context"
	"errors"
	"fmt"

	fisherrors "fishtank/internal/fish/errors"
	"fishtank/internal/fish/repository"
	"fishtank/pkg/logger"
)

type Result struct {
	Copied      int
	Overwritten int
	Skipped     int
	Failed      int
}

func (r Result) String() string {
	return fmt.Sprintf("copied=%d overwritten=%d skipped=%d failed=%d", r.Copied, r.Overwritten, r.Skipped, r.Failed)
}

// Copy writes every record of src into dst, descriptor bytes unchanged.
// Records already present in dst are skipped unless overwrite is set.
// Unreadable source records are counted as failed and do not stop the copy.
func Copy(ctx context.Context, src, dst repository.FishRepository, overwrite bool, log *logger.Logger) (Result, error) {
	var res Result

	entries, err := src.List(ctx)
	if err != nil {
		return res, fmt.Errorf("list %s store: %w", src.Driver(), err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if entry.Err != nil {
			res.Failed++
			log.Warn("Skipping unreadable record", "id", entry.ID, "location", src.Location(entry.ID), "error", entry.Err)
			continue
		}

		err := dst.Create(ctx, entry.ID, entry.Data)
		switch {
		case err == nil:
			res.Copied++
		case errors.Is(err, fisherrors.ErrAlreadyExists) && overwrite:
			if err := dst.Put(ctx, entry.ID, entry.Data); err != nil {
				res.Failed++
				log.Error("Failed to overwrite record", "id", entry.ID, "location", dst.Location(entry.ID), "error", err)
				continue
			}
			res.Overwritten++
		case errors.Is(err, fisherrors.ErrAlreadyExists):
			res.Skipped++
			log.Debug("Record already present, skipping", "id", entry.ID)
		case errors.Is(err, fisherrors.ErrStoreUnavailable):
			return res, fmt.Errorf("write %s store: %w", dst.Driver(), err)
		default:
			res.Failed++
			log.Error("Failed to copy record", "id", entry.ID, "location", dst.Location(entry.ID), "error", err)
		}
	}

	if res.Failed > 0 {
		return res, fmt.Errorf("%d of %d records could not be copied", res.Failed, len(entries))
	}
	return res, nil
}
