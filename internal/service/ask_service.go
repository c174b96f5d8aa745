package service

import (
	"marksbot/internal/interpret"

	"github.com/phuslu/log"
)

type AskService struct {
	interpreter *interpret.Interpreter
}

func NewAskService(interpreter *interpret.Interpreter) *AskService {
	return &AskService{interpreter: interpreter}
}

// Ask answers one student question. The error is non-nil only when the
// store is unreachable; ambiguity and not-found outcomes come back as
// rendered answer strings.
func (s *AskService) Ask(studentID, question string) (string, error) {
	answer, err := s.interpreter.Answer(studentID, question)
	if err != nil {
		log.Error().Err(err).Str("student_id", studentID).Msg("ask failed")
		return "", err
	}
	log.Debug().Str("student_id", studentID).Str("question", question).Msg("question answered")
	return answer, nil
}
