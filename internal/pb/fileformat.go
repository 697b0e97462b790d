// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pb

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// BlobHeader is the fixed-size, length-prefixed header that precedes every
// Blob on the wire.
type BlobHeader struct {
	Type      *string
	Indexdata []byte
	Datasize  *int32
}

func (h *BlobHeader) GetType() string {
	if h != nil && h.Type != nil {
		return *h.Type
	}

	return ""
}

func (h *BlobHeader) GetIndexdata() []byte {
	if h != nil {
		return h.Indexdata
	}

	return nil
}

func (h *BlobHeader) GetDatasize() int32 {
	if h != nil && h.Datasize != nil {
		return *h.Datasize
	}

	return 0
}

func (h *BlobHeader) Marshal() ([]byte, error) {
	var b []byte

	if h.Type != nil {
		b = appendStringField(b, 1, *h.Type)
	}

	if h.Indexdata != nil {
		b = appendBytesField(b, 2, h.Indexdata)
	}

	if h.Datasize != nil {
		b = appendInt32Field(b, 3, *h.Datasize)
	}

	return b, nil
}

func UnmarshalBlobHeader(b []byte) (*BlobHeader, error) {
	h := &BlobHeader{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("pb: malformed BlobHeader tag: %w", protowire.ParseError(n))
		}

		b = b[n:]

		switch num {
		case 1:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed BlobHeader.type: %w", protowire.ParseError(n))
			}

			h.Type = String(v)
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed BlobHeader.indexdata: %w", protowire.ParseError(n))
			}

			h.Indexdata = append([]byte(nil), v...)
			b = b[n:]
		case 3:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed BlobHeader.datasize: %w", protowire.ParseError(n))
			}

			h.Datasize = Int32(int32(v))
			b = b[n:]
		default:
			n, err := skipField(b, typ)
			if err != nil {
				return nil, err
			}

			b = b[n:]
		}
	}

	return h, nil
}

// Blob carries either raw or zlib-compressed primitive/header block data.
// Only the "none" and "zlib" compression cases are supported; any other
// compressed payload field is skipped when unmarshalling, which leaves Data
// nil, so the decoder reports such a Blob as empty (ErrBlobEmpty).
type Blob struct {
	Data    isBlobData
	RawSize *int32
}

type isBlobData interface {
	isBlobData()
}

type Blob_Raw struct {
	Raw []byte
}

func (*Blob_Raw) isBlobData() {}

type Blob_ZlibData struct {
	ZlibData []byte
}

func (*Blob_ZlibData) isBlobData() {}

func (x *Blob) GetRaw() []byte {
	if x != nil {
		if d, ok := x.Data.(*Blob_Raw); ok {
			return d.Raw
		}
	}

	return nil
}

func (x *Blob) GetZlibData() []byte {
	if x != nil {
		if d, ok := x.Data.(*Blob_ZlibData); ok {
			return d.ZlibData
		}
	}

	return nil
}

func (x *Blob) GetRawSize() int32 {
	if x != nil && x.RawSize != nil {
		return *x.RawSize
	}

	return 0
}

func (x *Blob) Marshal() ([]byte, error) {
	var b []byte

	switch d := x.Data.(type) {
	case *Blob_Raw:
		b = appendBytesField(b, 1, d.Raw)
	case *Blob_ZlibData:
		b = appendBytesField(b, 3, d.ZlibData)
	case nil:
	default:
		return nil, fmt.Errorf("pb: unsupported Blob.Data %T", d)
	}

	if x.RawSize != nil {
		b = appendInt32Field(b, 2, *x.RawSize)
	}

	return b, nil
}

func UnmarshalBlob(b []byte) (*Blob, error) {
	x := &Blob{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("pb: malformed Blob tag: %w", protowire.ParseError(n))
		}

		b = b[n:]

		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed Blob.raw: %w", protowire.ParseError(n))
			}

			x.Data = &Blob_Raw{Raw: append([]byte(nil), v...)}
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed Blob.raw_size: %w", protowire.ParseError(n))
			}

			x.RawSize = Int32(int32(v))
			b = b[n:]
		case 3:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("pb: malformed Blob.zlib_data: %w", protowire.ParseError(n))
			}

			x.Data = &Blob_ZlibData{ZlibData: append([]byte(nil), v...)}
			b = b[n:]
		default:
			// Fields 4-7 (lzma_data, OBSOLETE_bzip2_data, lz4_data,
			// zstd_data) are recognized by real producers but unsupported
			// here; they are skipped rather than rejected, so a Blob that
			// carries only one of them keeps a nil x.Data and the decoder
			// reports it as ErrBlobEmpty.
			n, err := skipField(b, typ)
			if err != nil {
				return nil, err
			}

			b = b[n:]
		}
	}

	return x, nil
}
