package repositories

import (
	"context"
	"fmt"
	"sort"
	"time"

	"hostelhub/internal/constants"
	"hostelhub/internal/database"
	. "hostelhub/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

const (
	DEFAULT_LIST_LIMIT = 100
	MAX_LIST_LIMIT     = 500
)

const providerStatusOrder = "CASE status WHEN 'pending' THEN 0 WHEN 'in_progress' THEN 1 " +
	"WHEN 'completed' THEN 2 ELSE 3 END"

// ListOptions narrows a list to requests created at or after Since and caps its size.
type ListOptions struct {
	Since *time.Time
	Limit int
}

func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = DEFAULT_LIST_LIMIT
	}
	if o.Limit > MAX_LIST_LIMIT {
		o.Limit = MAX_LIST_LIMIT
	}
	return o
}

func (o ListOptions) cacheSuffix() string {
	since := "all"
	if o.Since != nil {
		since = fmt.Sprintf("%d", o.Since.UTC().UnixNano())
	}
	return fmt.Sprintf("%s:%d", since, o.Limit)
}

type ServiceRequestRepository interface {
	Create(ctx context.Context, request *ServiceRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*ServiceRequest, error)
	ListByRequester(
		ctx context.Context,
		requesterID uuid.UUID,
		category RequestCategory,
		opts ListOptions,
	) ([]*ServiceRequest, error)
	ListByProvider(
		ctx context.Context,
		providerID uuid.UUID,
		category RequestCategory,
		opts ListOptions,
	) ([]*ServiceRequest, error)
	UpdateStatus(
		ctx context.Context,
		id uuid.UUID,
		from RequestStatus,
		to RequestStatus,
	) (*ServiceRequest, error)
	AttachFeedback(ctx context.Context, id uuid.UUID, feedback Feedback) (*ServiceRequest, error)
}

type serviceRequestRepository struct {
	store ServiceRequestStore
	cache valkey.Client
	log   logger.Logger
}

// NewServiceRequestRepository layers list caching and ordering over store. A nil
// cache disables caching.
func NewServiceRequestRepository(
	store ServiceRequestStore,
	cache valkey.Client,
) ServiceRequestRepository {
	return &serviceRequestRepository{
		store: store,
		cache: cache,
		log:   logger.New("serviceRequestRepository"),
	}
}

func (r *serviceRequestRepository) Create(ctx context.Context, request *ServiceRequest) error {
	if err := r.store.Insert(ctx, request); err != nil {
		return err
	}

	r.invalidate(ctx, request)
	return nil
}

// GetByID always reads through to the store so callers see their own writes.
func (r *serviceRequestRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*ServiceRequest, error) {
	return r.store.FindByID(ctx, id)
}

func (r *serviceRequestRepository) ListByRequester(
	ctx context.Context,
	requesterID uuid.UUID,
	category RequestCategory,
	opts ListOptions,
) ([]*ServiceRequest, error) {
	opts = opts.Normalize()

	return r.list(ctx, "requester", requesterID, category, opts,
		RequestFilter{
			RequesterID:  &requesterID,
			Category:     category,
			CreatedSince: opts.Since,
			OrderBy:      []string{"created_at DESC"},
			Limit:        opts.Limit,
			Preload:      true,
		},
		SortForRequester,
	)
}

func (r *serviceRequestRepository) ListByProvider(
	ctx context.Context,
	providerID uuid.UUID,
	category RequestCategory,
	opts ListOptions,
) ([]*ServiceRequest, error) {
	opts = opts.Normalize()

	return r.list(ctx, "provider", providerID, category, opts,
		RequestFilter{
			ProviderID:   &providerID,
			Category:     category,
			CreatedSince: opts.Since,
			OrderBy:      []string{"requested_date ASC", providerStatusOrder, "created_at ASC"},
			Limit:        opts.Limit,
			Preload:      true,
		},
		SortForProvider,
	)
}

func (r *serviceRequestRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	from RequestStatus,
	to RequestStatus,
) (*ServiceRequest, error) {
	updated, err := r.store.CompareAndSetStatus(ctx, id, from, to)
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx, updated)
	return updated, nil
}

func (r *serviceRequestRepository) AttachFeedback(
	ctx context.Context,
	id uuid.UUID,
	feedback Feedback,
) (*ServiceRequest, error) {
	updated, err := r.store.SetFeedbackIfAbsent(ctx, id, feedback)
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx, updated)
	return updated, nil
}

func (r *serviceRequestRepository) list(
	ctx context.Context,
	scope string,
	userID uuid.UUID,
	category RequestCategory,
	opts ListOptions,
	filter RequestFilter,
	order func([]*ServiceRequest),
) ([]*ServiceRequest, error) {
	log := r.log.Function("list")
	key := listCacheKey(scope, userID, category, opts)

	if r.cache != nil {
		var cached []*ServiceRequest
		found, err := database.NewCacheBuilder(r.cache, key).WithContext(ctx).Get(&cached)
		if err != nil {
			log.Warn("failed to read request list from cache", "key", key, "error", err)
		}
		if found {
			return cached, nil
		}
	}

	requests, err := r.store.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	order(requests)

	if r.cache != nil {
		r.addListToCache(ctx, userID, key, requests)
	}

	return requests, nil
}

func (r *serviceRequestRepository) addListToCache(
	ctx context.Context,
	userID uuid.UUID,
	key string,
	requests []*ServiceRequest,
) {
	log := r.log.Function("addListToCache")

	if err := database.NewCacheBuilder(r.cache, key).
		WithStruct(requests).
		WithTTL(constants.RequestsCacheExpiry).
		WithContext(ctx).
		Set(); err != nil {
		log.Warn("failed to cache request list", "key", key, "error", err)
		return
	}

	if err := database.NewCacheBuilder(r.cache, userID).
		WithHash(constants.RequestsCacheIndexPrefix).
		WithMember(key).
		WithTTL(constants.RequestsCacheExpiry).
		WithContext(ctx).
		AddSetMember(); err != nil {
		log.Warn("failed to index cached request list", "key", key, "error", err)
	}
}

// invalidate drops every cached list of both parties of request.
func (r *serviceRequestRepository) invalidate(ctx context.Context, request *ServiceRequest) {
	if r.cache == nil || request == nil {
		return
	}
	log := r.log.Function("invalidate")

	for _, userID := range request.Recipients() {
		if err := database.NewCacheBuilder(r.cache, userID).
			WithHash(constants.RequestsCacheIndexPrefix).
			WithContext(ctx).
			DeleteSetWithMembers(); err != nil {
			log.Warn("failed to invalidate request lists", "userID", userID, "error", err)
		}
	}
}

func listCacheKey(
	scope string,
	userID uuid.UUID,
	category RequestCategory,
	opts ListOptions,
) string {
	categoryKey := string(category)
	if categoryKey == "" {
		categoryKey = "all"
	}
	return fmt.Sprintf(
		"%s:%s:%s:%s:%s",
		constants.RequestsCachePrefix,
		scope,
		userID,
		categoryKey,
		opts.cacheSuffix(),
	)
}

// SortForRequester puts the newest requests first.
func SortForRequester(requests []*ServiceRequest) {
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
}

// SortForProvider orders by requested date, then status priority, then creation time.
func SortForProvider(requests []*ServiceRequest) {
	sort.SliceStable(requests, func(i, j int) bool {
		a, b := requests[i], requests[j]
		if !a.RequestedDate.Equal(b.RequestedDate) {
			return a.RequestedDate.Before(b.RequestedDate)
		}
		if a.Status.Priority() != b.Status.Priority() {
			return a.Status.Priority() < b.Status.Priority()
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}
