package sharehandler

import (
	"context"

	"jan-server/services/thread-api/internal/domain/query"
	"jan-server/services/thread-api/internal/domain/share"
	sharerequests "jan-server/services/thread-api/internal/interfaces/httpserver/requests/share"
	shareresponses "jan-server/services/thread-api/internal/interfaces/httpserver/responses/share"
	"jan-server/services/thread-api/internal/utils/platformerrors"
)

// ShareHandler handles share-link HTTP requests
type ShareHandler struct {
	shareService *share.ShareService
	baseURL      string
}

// NewShareHandler creates a new share handler
func NewShareHandler(shareService *share.ShareService, baseURL string) *ShareHandler {
	return &ShareHandler{
		shareService: shareService,
		baseURL:      baseURL,
	}
}

// CreateShare creates a share link pinned at a cutoff message
func (h *ShareHandler) CreateShare(
	ctx context.Context,
	userID string,
	req sharerequests.CreateShareRequest,
) (*shareresponses.ShareLinkResponse, error) {
	link, err := h.shareService.CreateShare(ctx, share.CreateShareInput{
		OwnerID:             userID,
		ThreadPublicID:      req.ThreadID,
		SharedUpToMessageID: req.MessageID,
		Token:               req.Token,
	})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to create share link")
	}
	return shareresponses.NewShareLinkResponse(link, h.baseURL), nil
}

// ListShares returns the requester's share links
func (h *ShareHandler) ListShares(
	ctx context.Context,
	userID string,
	pagination *query.Pagination,
) (*shareresponses.ShareLinkListResponse, error) {
	links, err := h.shareService.ListShares(ctx, userID, pagination)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to list share links")
	}
	return shareresponses.NewShareLinkListResponse(links, h.baseURL, int64(len(links))), nil
}

// DeleteShare revokes a share link owned by the requester
func (h *ShareHandler) DeleteShare(ctx context.Context, userID string, token string) error {
	if err := h.shareService.DeleteShare(ctx, userID, token); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to delete share link")
	}
	return nil
}

// ResolveShare serves the public payload for a token: the thread and its
// messages up to the pinned cutoff. No authentication involved.
func (h *ShareHandler) ResolveShare(ctx context.Context, token string) (*shareresponses.SharedThreadDataResponse, error) {
	out, err := h.shareService.ResolveShare(ctx, token)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to resolve share link")
	}
	return shareresponses.NewSharedThreadDataResponse(out), nil
}
