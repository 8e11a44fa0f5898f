package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ukaji3/novembroazul-go/pkg/novembro/registration"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/validation"
	"go.uber.org/zap"
)

// StoreFailureMessage is returned when a valid registration could not be
// stored. The storage error itself is only logged.
const StoreFailureMessage = "Erro ao salvar cadastro: não foi possível gravar os dados."

// RegistrationReply is the registration success body.
type RegistrationReply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// handleRegistration re-validates and stores one sign-up.
func (s *Server) handleRegistration(w http.ResponseWriter, r *http.Request) {
	var sub *validation.Submission
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&sub); err != nil || sub == nil {
		respondWithError(w, http.StatusBadRequest, "Dados inválidos ou JSON malformado.")
		return
	}
	if s.deps.Registrations == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Cadastro indisponível.")
		return
	}

	if _, err := s.deps.Registrations.Submit(r.Context(), *sub); err != nil {
		var v *validation.Violation
		if errors.As(err, &v) {
			respondWithError(w, http.StatusBadRequest, v.Message)
			return
		}
		s.logger.Error("registration store failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err),
		)
		respondWithError(w, http.StatusInternalServerError, StoreFailureMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, RegistrationReply{Success: true, Message: registration.SuccessMessage})
}
