package threadhandler

import (
	"context"

	"jan-server/services/thread-api/internal/domain/query"
	"jan-server/services/thread-api/internal/domain/thread"
	threadrequests "jan-server/services/thread-api/internal/interfaces/httpserver/requests/threadreq"
	threadresponses "jan-server/services/thread-api/internal/interfaces/httpserver/responses/threadres"
	"jan-server/services/thread-api/internal/utils/platformerrors"
)

// ThreadHandler handles thread-related HTTP requests
type ThreadHandler struct {
	threadService *thread.ThreadService
}

// NewThreadHandler creates a new thread handler
func NewThreadHandler(threadService *thread.ThreadService) *ThreadHandler {
	return &ThreadHandler{threadService: threadService}
}

// CreateThread creates a new thread owned by the requester
func (h *ThreadHandler) CreateThread(
	ctx context.Context,
	userID string,
	req threadrequests.CreateThreadRequest,
) (*threadresponses.ThreadResponse, error) {
	visibility := thread.VisibilityPrivate
	if req.Visibility != nil {
		visibility = thread.Visibility(*req.Visibility)
	}

	t, err := h.threadService.CreateThread(ctx, thread.CreateThreadInput{
		OwnerID:    userID,
		Title:      req.Title,
		Visibility: visibility,
	})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to create thread")
	}
	return threadresponses.NewThreadResponse(t), nil
}

// ListThreads returns the requester's threads, newest first
func (h *ThreadHandler) ListThreads(
	ctx context.Context,
	userID string,
	pagination *query.Pagination,
) (*threadresponses.ThreadListResponse, error) {
	// Fetch one extra row to detect whether more pages exist.
	requested := pagination.LimitOrDefault(20, 100)
	probe := requested + 1
	probePagination := &query.Pagination{
		Limit:  &probe,
		Offset: pagination.Offset,
		After:  pagination.After,
		Order:  pagination.Order,
	}

	threads, total, err := h.threadService.ListThreads(ctx, userID, probePagination)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to list threads")
	}

	hasMore := len(threads) > requested
	if hasMore {
		threads = threads[:requested]
	}
	return threadresponses.NewThreadListResponse(threads, hasMore, total), nil
}

// GetThread retrieves a thread readable by the requester
func (h *ThreadHandler) GetThread(
	ctx context.Context,
	userID string,
	threadID string,
) (*threadresponses.ThreadResponse, error) {
	t, err := h.threadService.GetThread(ctx, userID, threadID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to get thread")
	}
	return threadresponses.NewThreadResponse(t), nil
}

// DeleteThread removes a thread with its messages and share links
func (h *ThreadHandler) DeleteThread(ctx context.Context, userID string, threadID string) error {
	if err := h.threadService.DeleteThread(ctx, userID, threadID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to delete thread")
	}
	return nil
}

// SetVisibility toggles a thread between private and public
func (h *ThreadHandler) SetVisibility(
	ctx context.Context,
	userID string,
	threadID string,
	req threadrequests.UpdateVisibilityRequest,
) (*threadresponses.ThreadResponse, error) {
	t, err := h.threadService.SetVisibility(ctx, userID, threadID, thread.Visibility(req.Visibility))
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to update thread visibility")
	}
	return threadresponses.NewThreadResponse(t), nil
}

// BranchThread forks a thread at an anchor message
func (h *ThreadHandler) BranchThread(
	ctx context.Context,
	userID string,
	threadID string,
	req threadrequests.BranchThreadRequest,
) (*threadresponses.ThreadResponse, error) {
	branched, err := h.threadService.BranchThread(ctx, thread.BranchThreadInput{
		RequesterID:      userID,
		OriginalThreadID: threadID,
		AnchorMessageID:  req.MessageID,
		NewThreadID:      req.ThreadID,
	})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to branch thread")
	}
	return threadresponses.NewThreadResponse(branched), nil
}

// GenerateTitle derives and persists a short thread title from a user query
func (h *ThreadHandler) GenerateTitle(
	ctx context.Context,
	userID string,
	threadID string,
	req threadrequests.GenerateTitleRequest,
) (*threadresponses.ThreadResponse, error) {
	t, err := h.threadService.GenerateTitle(ctx, userID, threadID, req.Query)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to generate thread title")
	}
	return threadresponses.NewThreadResponse(t), nil
}

// ResolveThreadPublicIDToNumericID resolves a thread public ID to its numeric
// ID for cursor-based pagination.
func (h *ThreadHandler) ResolveThreadPublicIDToNumericID(
	ctx context.Context,
	userID string,
	publicID string,
) (*uint, error) {
	t, err := h.threadService.GetThread(ctx, userID, publicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "invalid cursor: thread not found or not accessible")
	}
	return &t.ID, nil
}
