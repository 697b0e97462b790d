package decoder

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-spatial/osmpbf/internal/pb"
)

func encodeFramed(t *testing.T, headerType string, payload []byte) []byte {
	t.Helper()

	h := &pb.BlobHeader{Type: pb.String(headerType), Datasize: pb.Int32(int32(len(payload)))}
	hb, err := h.Marshal()
	require.NoError(t, err)

	var buf bytes.Buffer

	sizePrefix := make([]byte, 4)
	binary.BigEndian.PutUint32(sizePrefix, uint32(len(hb)))
	buf.Write(sizePrefix)
	buf.Write(hb)
	buf.Write(payload)

	return buf.Bytes()
}

func TestReadBlob_CleanEOF(t *testing.T) {
	_, err := ReadBlob(bytes.NewReader(nil))
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadBlob_PartialSizePrefixIsDistinctFromEOF(t *testing.T) {
	_, err := ReadBlob(bytes.NewReader([]byte{0, 1}))
	assert.ErrorIs(t, err, ErrInvalidHeaderSize)
	assert.NotErrorIs(t, err, io.EOF)
}

func TestReadBlob_HeaderTooBig(t *testing.T) {
	sizePrefix := make([]byte, 4)
	binary.BigEndian.PutUint32(sizePrefix, MaxHeaderSize)

	_, err := ReadBlob(bytes.NewReader(sizePrefix))
	assert.ErrorIs(t, err, ErrHeaderTooBig)
}

func TestReadBlob_RoundTripsHeaderAndPayload(t *testing.T) {
	blob := &pb.Blob{Data: &pb.Blob_Raw{Raw: []byte("hello")}}
	raw, err := blob.Marshal()
	require.NoError(t, err)

	framed := encodeFramed(t, "OSMData", raw)

	got, err := ReadBlob(bytes.NewReader(framed))
	require.NoError(t, err)
	assert.Equal(t, "OSMData", got.Header.GetType())
	assert.Equal(t, "hello", string(got.Data.GetRaw()))
}

func TestReadHeaderSkipBody_SkipsPayload(t *testing.T) {
	blob := &pb.Blob{Data: &pb.Blob_Raw{Raw: []byte("0123456789")}}
	raw, err := blob.Marshal()
	require.NoError(t, err)

	framed := encodeFramed(t, "OSMData", raw)
	framed = append(framed, encodeFramed(t, "OSMData", []byte("next"))...)

	r := bytes.NewReader(framed)

	h, err := ReadHeaderSkipBody(r, func(n int64) error {
		_, err := r.Seek(n, io.SeekCurrent)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "OSMData", h.GetType())

	h2, err := ReadHeaderSkipBody(r, func(n int64) error {
		_, err := r.Seek(n, io.SeekCurrent)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "OSMData", h2.GetType())

	_, err = ReadHeaderSkipBody(r, func(n int64) error { return nil })
	assert.True(t, errors.Is(err, io.EOF))
}

func TestUnpack_RawMessageTooBig(t *testing.T) {
	big := make([]byte, MaxMessageSize)
	blob := &pb.Blob{Data: &pb.Blob_Raw{Raw: big}}

	_, err := unpack(nil, blob)
	assert.ErrorIs(t, err, ErrMessageTooBig)
}

func TestUnpack_EmptyBlob(t *testing.T) {
	_, err := unpack(nil, &pb.Blob{})
	assert.ErrorIs(t, err, ErrBlobEmpty)
}
