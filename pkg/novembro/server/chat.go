package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ukaji3/novembroazul-go/pkg/novembro/llm"
	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Chat proxy error texts.
const (
	MissingKeyMessage      = "OPENAI_API_KEY não configurada no servidor."
	UpstreamErrorMessage   = "Erro ao chamar OpenAI"
	InvalidResponseMessage = "Resposta inválida da OpenAI"
	ConnectFailurePrefix   = "Erro ao conectar OpenAI: "
)

// ChatRequest is the chat proxy request body.
type ChatRequest struct {
	Message *string `json:"message"`
}

// ChatReply is the chat proxy success body.
type ChatReply struct {
	Reply string `json:"reply"`
}

// handleChat forwards one message to the completion API.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, `Requisição inválida. Forneça um campo "message" em JSON.`)
		return
	}
	if req.Message == nil || strings.TrimSpace(*req.Message) == "" {
		respondWithError(w, http.StatusBadRequest, `Campo "message" é obrigatório.`)
		return
	}
	if s.deps.Completer == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Assistente indisponível.")
		return
	}

	system := s.deps.SystemPrompt
	if system == "" {
		system = llm.SystemPrompt
	}

	reply, err := s.deps.Completer.Complete(r.Context(), system, strings.TrimSpace(*req.Message))
	if err != nil {
		s.respondChatError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, ChatReply{Reply: reply})
}

func (s *Server) respondChatError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.logger.With(zap.String("request_id", RequestID(r.Context())))

	var upErr *llm.UpstreamError
	var invalid *llm.InvalidResponseError
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		log.Error("chat proxy: api key missing")
		respondWithError(w, http.StatusInternalServerError, MissingKeyMessage)
	case errors.As(err, &upErr):
		log.Error("chat proxy: upstream error", zap.Int("upstream_status", upErr.Status), zap.Error(err))
		respondWithJSON(w, upErr.Status, map[string]interface{}{
			"error":   UpstreamErrorMessage,
			"details": rawJSON(upErr.Body),
		})
	case errors.As(err, &invalid):
		log.Error("chat proxy: invalid upstream response", zap.Error(err))
		respondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": InvalidResponseMessage,
			"raw":   rawJSON(invalid.Raw),
		})
	default:
		log.Error("chat proxy: request failed", zap.Error(err))
		respondWithError(w, http.StatusBadGateway, ConnectFailurePrefix+err.Error())
	}
}
