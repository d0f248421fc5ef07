package assessment

import (
	"io"
	"iter"
)

// TurnFallback is the single chunk emitted when streaming the next question
// fails partway. The interview keeps moving even when the model does not.
const TurnFallback = "Thank you for your answer. Could you walk me through a recent project you are proud of, and tell me which part of it you found the hardest?"

// TurnStream delivers the next interview question chunk by chunk. Recv never
// returns a model error: a failed stream degrades to one fallback chunk
// followed by io.EOF.
type TurnStream struct {
	next func() (string, error, bool)
	stop func()
	done bool
}

func newTurnStream(seq iter.Seq2[string, error]) *TurnStream {
	next, stop := iter.Pull2(seq)
	return &TurnStream{next: next, stop: stop}
}

// Recv returns the next chunk, or io.EOF once the stream is exhausted.
func (s *TurnStream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}
	chunk, err, ok := s.next()
	if !ok {
		s.finish()
		return "", io.EOF
	}
	if err != nil {
		s.finish()
		return TurnFallback, nil
	}
	return chunk, nil
}

// Close releases the underlying stream. Safe to call more than once and after
// Recv has returned io.EOF.
func (s *TurnStream) Close() {
	s.finish()
}

func (s *TurnStream) finish() {
	if !s.done {
		s.done = true
		s.stop()
	}
}
