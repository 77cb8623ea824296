package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	fisherrors "fishtank/internal/fish/errors"
	"fishtank/internal/fish/events"
	"fishtank/internal/fish/repository"
	"fishtank/internal/fish/validator"
	"fishtank/pkg/config"
	apperrors "fishtank/pkg/errors"
	"fishtank/pkg/metrics"
	"fishtank/pkg/middleware"
	"fishtank/pkg/model"
	"fishtank/pkg/sanitizer"
)

const (
	OpList   = "list"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// updatableFields are the only keys an update may override.
var updatableFields = []string{
	model.FieldWaterType,
	model.FieldAggression,
	model.FieldSize,
	model.FieldDeleted,
	model.FieldCreatedBy,
	model.FieldUserName,
	model.FieldAPIKey,
	model.FieldCreatedAt,
	model.FieldBrowserID,
	model.FieldThumbmark,
}

type FishService interface {
	List(ctx context.Context) (map[string]*model.Fish, error)
	Create(ctx context.Context, fields model.Fields) (string, error)
	Update(ctx context.Context, fields model.Fields) (*model.Fish, error)
	Delete(ctx context.Context, fields model.Fields) error
}

type fishService struct {
	repo      repository.FishRepository
	validator *validator.FishValidator
	events    events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewFishService(
	repo repository.FishRepository,
	validator *validator.FishValidator,
	publisher events.Publisher,
	cfg *config.Config,
) FishService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &fishService{
		repo:      repo,
		validator: validator,
		events:    publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *fishService) List(ctx context.Context) (fish map[string]*model.Fish, err error) {
	defer func() { recordOutcome(OpList, err) }()

	entries, err := s.repo.List(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list fish",
			"location", s.repo.Location(""),
			"error", err,
		)
		if errors.Is(err, fisherrors.ErrStoreUnavailable) {
			return nil, apperrors.StoreUnavailable(s.repo.Location(""), err)
		}
		return nil, apperrors.Internal("Failed to list fish", err)
	}

	fish = make(map[string]*model.Fish, len(entries))
	for _, entry := range entries {
		if entry.Err != nil {
			s.skipDescriptor(entry.ID, entry.Err)
			continue
		}
		raw, err := decodeDescriptor(entry.Data)
		if err != nil {
			s.skipDescriptor(entry.ID, err)
			continue
		}
		if model.AsBool(raw[model.FieldDeleted]) {
			continue
		}
		fish[entry.ID] = model.FishFromFields(sanitizer.Overlay(raw))
	}

	return fish, nil
}

func (s *fishService) skipDescriptor(id string, err error) {
	metrics.SkippedDescriptors.Inc()
	s.cfg.Log.Warn("Skipping unreadable fish descriptor",
		"id", id,
		"location", s.repo.Location(id),
		"error", err,
	)
}

func (s *fishService) Create(ctx context.Context, fields model.Fields) (id string, err error) {
	defer func() { recordOutcome(OpCreate, err) }()

	req := validator.NewCreateRequest(fields)
	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Fish validation failed",
			"operation", OpCreate,
			"name", req.Name,
			"error", err,
		)
		return "", validationError("Missing required fish information",
			"Required fields: name, userName, apiKey", err)
	}

	id = req.ID
	fish := &model.Fish{
		Name:       id,
		WaterType:  sanitizer.NormalizeWaterType(fields[model.FieldWaterType]),
		Size:       sanitizer.NormalizeSize(fields[model.FieldSize]),
		Aggression: sanitizer.NormalizeAggression(fields[model.FieldAggression]),
		CreatedBy:  req.Creator,
		APIKey:     req.APIKey,
		CreatedAt:  s.now().Unix(),
		BrowserID:  fields.String(model.FieldBrowserID),
		Thumbmark:  fields.String(model.FieldThumbmark),
		UserName:   fields.String(model.FieldUserName),
		Deleted:    false,
	}
	for k, v := range fields {
		if model.IsCoreField(k) {
			continue
		}
		if fish.Extra == nil {
			fish.Extra = make(map[string]any)
		}
		fish.Extra[k] = v
	}

	data, err := json.Marshal(fish)
	if err != nil {
		return "", apperrors.Internal("Failed to encode fish", err)
	}

	location := s.repo.Location(id)
	if err := s.repo.Create(ctx, id, data); err != nil {
		switch {
		case errors.Is(err, fisherrors.ErrAlreadyExists):
			s.cfg.Log.Warn("Fish already exists", "id", id, "location", location)
			return "", apperrors.Conflict(fmt.Sprintf("Fish %s already exists", id)).
				WithDetail("path", location)
		case errors.Is(err, fisherrors.ErrStoreUnavailable):
			s.cfg.Log.Error("Fish store unavailable", "id", id, "error", err)
			return "", apperrors.StoreUnavailable(s.repo.Location(""), err)
		default:
			s.cfg.Log.Error("Failed to create fish",
				"id", id,
				"location", location,
				"error", err,
			)
			return "", apperrors.StoreError("Error creating fish", location, err)
		}
	}

	s.cfg.Log.Info("Fish created successfully",
		"id", id,
		"created_by", fish.CreatedBy,
		"water_type", fish.WaterType,
		"size", fish.Size,
		"aggression", fish.Aggression,
	)
	s.publish(ctx, events.New(events.TypeCreated, id, fish))

	return id, nil
}

func (s *fishService) Update(ctx context.Context, fields model.Fields) (view *model.Fish, err error) {
	defer func() { recordOutcome(OpUpdate, err) }()

	req := validator.NewNameRequest(fields)
	if err := s.validator.ValidateName(req); err != nil {
		s.cfg.Log.Warn("Fish validation failed",
			"operation", OpUpdate,
			"name", req.Name,
			"error", err,
		)
		return nil, validationError("Missing required fish name", "Required field: name", err)
	}

	id := req.ID
	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	applyOverrides(existing, fields)
	fish := model.FishFromFields(sanitizer.Overlay(existing))

	data, err := json.Marshal(fish)
	if err != nil {
		return nil, apperrors.Internal("Failed to encode fish", err)
	}

	location := s.repo.Location(id)
	if err := s.repo.Put(ctx, id, data); err != nil {
		if errors.Is(err, fisherrors.ErrNotFound) {
			return nil, notFound(id)
		}
		s.cfg.Log.Error("Failed to update fish",
			"id", id,
			"location", location,
			"error", err,
		)
		return nil, apperrors.StoreError("Error updating fish info file", location, err)
	}

	s.cfg.Log.Info("Fish updated successfully",
		"id", id,
		"deleted", fish.Deleted,
	)
	s.publish(ctx, events.New(events.TypeUpdated, id, fish))

	return s.responseView(fish, fields), nil
}

// load reads a record straight from the repository, so soft-deleted records
// are found too. A descriptor that cannot be parsed counts as missing.
func (s *fishService) load(ctx context.Context, id string) (model.Fields, error) {
	data, err := s.repo.Get(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, fisherrors.ErrNotFound):
			return nil, notFound(id)
		case errors.Is(err, fisherrors.ErrStoreUnavailable):
			s.cfg.Log.Error("Fish store unavailable", "id", id, "error", err)
			return nil, apperrors.StoreUnavailable(s.repo.Location(""), err)
		default:
			s.cfg.Log.Error("Failed to read fish",
				"id", id,
				"location", s.repo.Location(id),
				"error", err,
			)
			return nil, apperrors.StoreError("Error reading fish info file", s.repo.Location(id), err)
		}
	}

	fields, err := decodeDescriptor(data)
	if err != nil {
		s.skipDescriptor(id, err)
		return nil, notFound(id)
	}
	return fields, nil
}

func (s *fishService) Delete(ctx context.Context, fields model.Fields) (err error) {
	defer func() { recordOutcome(OpDelete, err) }()

	req := validator.NewNameRequest(fields)
	if err := s.validator.ValidateName(req); err != nil {
		s.cfg.Log.Warn("Fish validation failed",
			"operation", OpDelete,
			"name", req.Name,
			"error", err,
		)
		return validationError("Missing required fish name", "Required field: name", err)
	}

	id := req.ID
	if _, err := s.load(ctx, id); err != nil {
		return err
	}

	location := s.repo.Location(id)
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, fisherrors.ErrNotFound) {
			return notFound(id)
		}
		s.cfg.Log.Error("Failed to delete fish",
			"id", id,
			"location", location,
			"error", err,
		)
		return apperrors.StoreError("Error deleting fish", location, err)
	}

	s.cfg.Log.Info("Fish deleted successfully", "id", id)
	s.publish(ctx, events.New(events.TypeDeleted, id, nil))

	return nil
}

// publish never fails the caller; the record change has already happened.
func (s *fishService) publish(ctx context.Context, event events.Event) {
	event.CorrelationID = middleware.RequestIDFromContext(ctx)
	if err := s.events.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish fish event",
			"type", event.Type,
			"id", event.ID,
			"error", err,
		)
	}
}

// responseView fills the opaque fields of the update response from the
// stored record, then the caller's input, then an empty default.
func (s *fishService) responseView(fish *model.Fish, input model.Fields) *model.Fish {
	view := *fish
	view.Extra = nil

	if view.CreatedBy == "" {
		view.CreatedBy = firstNonEmpty(input.String(model.FieldUserName), input.String(model.FieldCreatedBy))
	}
	if view.APIKey == "" {
		view.APIKey = input.String(model.FieldAPIKey)
	}
	if view.CreatedAt == 0 {
		if n, ok := model.AsInt(input[model.FieldCreatedAt]); ok && n != 0 {
			view.CreatedAt = int64(n)
		} else {
			view.CreatedAt = s.now().Unix()
		}
	}
	if view.BrowserID == "" {
		view.BrowserID = input.String(model.FieldBrowserID)
	}
	if view.Thumbmark == "" {
		view.Thumbmark = input.String(model.FieldThumbmark)
	}
	if view.UserName == "" {
		view.UserName = input.String(model.FieldUserName)
	}
	return &view
}

// applyOverrides copies whitelisted keys from input onto existing. Empty
// waterType and size are ignored; aggression is clamped into range. Numeric
// fields are left alone when they do not parse.
func applyOverrides(existing, input model.Fields) {
	for _, field := range updatableFields {
		val, ok := input[field]
		if !ok {
			continue
		}
		switch field {
		case model.FieldWaterType, model.FieldSize:
			if s, isString := val.(string); isString && s == "" {
				continue
			}
			existing[field] = val
		case model.FieldAggression:
			if n, ok := model.AsInt(val); ok {
				existing[field] = sanitizer.ClampAggression(n)
			}
		case model.FieldCreatedAt:
			if n, ok := model.AsInt(val); ok {
				existing[field] = n
			}
		default:
			existing[field] = val
		}
	}
}

func decodeDescriptor(data []byte) (model.Fields, error) {
	var fields model.Fields
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("descriptor is not a JSON object")
	}
	return fields, nil
}

func notFound(id string) *apperrors.AppError {
	return apperrors.NotFoundWithID("Fish", id).
		WithDetail("message", fmt.Sprintf("No fish named %s exists", id))
}

func validationError(message, hint string, err error) *apperrors.AppError {
	details := map[string]any{"error": hint}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details["fields"] = verrs
	}
	return apperrors.Validation(message, details)
}

func recordOutcome(op string, err error) {
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = apperrors.AsAppError(err).Code
	}
	metrics.FishOperations.WithLabelValues(op, outcome).Inc()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
