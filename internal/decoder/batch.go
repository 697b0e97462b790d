package decoder

import (
	"log/slog"

	"github.com/destel/rill"

	"github.com/go-spatial/osmpbf/internal/core"
	"github.com/go-spatial/osmpbf/model"
)

// DecodeBatch unpacks a batch of framed blobs and parses their OSMData
// payloads into entities, which are subsequently sent down the out channel.
// OSMHeader and any other non-OSMData blob in the batch is silently skipped.
func DecodeBatch(array []*Blob) (out <-chan rill.Try[[]model.Entity]) {
	ch := make(chan rill.Try[[]model.Entity])
	out = ch

	buf := core.NewPooledBuffer()

	go func() {
		defer close(ch)
		defer buf.Close()

		for _, blob := range array {
			if blob.Header.GetType() != "OSMData" {
				continue
			}

			buf.Reset()

			unpacked, err := unpack(buf, blob.Data)
			if err != nil {
				slog.Error("unable to unpack blob", "error", err)
				ch <- rill.Try[[]model.Entity]{Error: err}

				return
			}

			entities, err := parsePrimitiveBlock(unpacked)
			if err != nil {
				slog.Error("unable to parse block", "error", err)
				ch <- rill.Try[[]model.Entity]{Error: err}

				return
			}

			ch <- rill.Try[[]model.Entity]{Value: entities}
		}
	}()

	return out
}
