package generationhandler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jan-server/services/thread-api/internal/domain/generation"
	"jan-server/services/thread-api/internal/infrastructure/inference"
	"jan-server/services/thread-api/internal/interfaces/httpserver/middlewares"
	"jan-server/services/thread-api/internal/interfaces/httpserver/responses"
	messageresponses "jan-server/services/thread-api/internal/interfaces/httpserver/responses/messageres"
	"jan-server/services/thread-api/internal/utils/platformerrors"
)

// GenerationHandler streams model output for a thread over SSE.
type GenerationHandler struct {
	generationService *generation.GenerationService
	catalog           *inference.ModelCatalog
	logger            zerolog.Logger
}

// NewGenerationHandler creates a new generation handler
func NewGenerationHandler(generationService *generation.GenerationService, catalog *inference.ModelCatalog, logger zerolog.Logger) *GenerationHandler {
	return &GenerationHandler{
		generationService: generationService,
		catalog:           catalog,
		logger:            logger,
	}
}

// checkModel rejects generation requests for models outside the allowlist.
func (h *GenerationHandler) checkModel(reqCtx *gin.Context, model *string) bool {
	if model == nil || *model == "" {
		return true
	}
	if !h.catalog.IsAllowed(*model) {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "model is not available for generation", "7d2f8a60-5c34-4e19-b8d6-1a95e0c3f472")
		return false
	}
	return true
}

// deltaFrame is the SSE payload for a streamed content delta.
type deltaFrame struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Delta string `json:"delta"`
}

// StreamGeneration runs a generation and streams delta frames terminated by
// a [DONE] marker. The run survives client disconnects; the terminal state
// is persisted either way.
func (h *GenerationHandler) StreamGeneration(reqCtx *gin.Context, userID string, threadID string, model *string) {
	if !h.checkModel(reqCtx, model) {
		return
	}
	stream, err := h.generationService.StartGeneration(reqCtx.Request.Context(), generation.StartGenerationInput{
		RequesterID:    userID,
		ThreadPublicID: threadID,
		Model:          model,
	})
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to start generation")
		return
	}

	flusher, ok := middlewares.PrepareSSE(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeInternal, "streaming unsupported by connection", "c5e17d92-0b48-4a63-bf25-8d901c36ea74")
		return
	}
	reqCtx.Writer.WriteHeaderNow()

	for event := range stream.Events {
		switch event.Type {
		case generation.EventTypeDelta:
			payload, marshalErr := json.Marshal(deltaFrame{
				ID:    stream.MessagePublicID,
				Type:  "message.delta",
				Delta: event.Delta,
			})
			if marshalErr != nil {
				continue
			}
			if writeErr := h.writeSSEData(reqCtx, string(payload)); writeErr != nil {
				// Client went away; drain so the run can finish persisting.
				h.drain(stream)
				return
			}
		case generation.EventTypeDone, generation.EventTypeError:
			if event.Message != nil {
				payload, marshalErr := json.Marshal(messageresponses.NewMessageResponse(event.Message, threadID))
				if marshalErr == nil {
					_ = h.writeSSEData(reqCtx, string(payload))
				}
			}
		}
		flusher.Flush()
	}

	_ = h.writeSSEData(reqCtx, "[DONE]")
}

// BlockingGeneration runs a generation to completion and returns the final
// message.
func (h *GenerationHandler) BlockingGeneration(reqCtx *gin.Context, userID string, threadID string, model *string) {
	if !h.checkModel(reqCtx, model) {
		return
	}
	stream, err := h.generationService.StartGeneration(reqCtx.Request.Context(), generation.StartGenerationInput{
		RequesterID:    userID,
		ThreadPublicID: threadID,
		Model:          model,
	})
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to start generation")
		return
	}

	var final *generation.Event
	for event := range stream.Events {
		if event.Type == generation.EventTypeDone || event.Type == generation.EventTypeError {
			ev := event
			final = &ev
		}
	}

	if final == nil || final.Message == nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeInternal, "generation ended without a terminal message", "4f82a0c6-91de-4b35-a7f0-3c65e18d29b7")
		return
	}
	if final.Type == generation.EventTypeError && final.Err != nil {
		responses.HandleError(reqCtx, final.Err, "generation failed")
		return
	}
	reqCtx.JSON(http.StatusOK, messageresponses.NewMessageResponse(final.Message, threadID))
}

// StopGeneration cancels the thread's active generation.
func (h *GenerationHandler) StopGeneration(reqCtx *gin.Context, userID string, threadID string) {
	if err := h.generationService.StopGeneration(reqCtx.Request.Context(), userID, threadID); err != nil {
		responses.HandleError(reqCtx, err, "failed to stop generation")
		return
	}
	reqCtx.JSON(http.StatusOK, gin.H{"stopped": true})
}

func (h *GenerationHandler) drain(stream *generation.GenerationStream) {
	for range stream.Events {
	}
}

// writeSSEData writes an SSE data event to the response
func (h *GenerationHandler) writeSSEData(reqCtx *gin.Context, data string) error {
	if _, err := reqCtx.Writer.Write([]byte("data: ")); err != nil {
		return err
	}
	if _, err := reqCtx.Writer.Write([]byte(data)); err != nil {
		return err
	}
	if _, err := reqCtx.Writer.Write([]byte("\n\n")); err != nil {
		return err
	}
	reqCtx.Writer.Flush()
	return nil
}
