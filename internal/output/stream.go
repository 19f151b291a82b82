package output

import (
	"github.com/temirov/treedump/internal/types"
)

type StreamRenderer interface {
	Handle(event types.Event) error
	Flush() error
}
