// Copyright 2025 Corvid Labs
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


package dedup

import (
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// EntryMUS serializes Entry in MUS format. Timestamps are stored as Unix
// microseconds, so sub-microsecond precision is lost on a round trip.
var EntryMUS = entryMUS{}

type entryMUS struct{}

var _ mus.Serializer[Entry] = entryMUS{}

func (entryMUS) Marshal(v Entry, bs []byte) (n int) {
	n = ord.String.Marshal(v.Source, bs)
	n += varint.Int64.Marshal(v.FirstSeen.UnixMicro(), bs[n:])
	return
}

func (entryMUS) Unmarshal(bs []byte) (v Entry, n int, err error) {
	v.Source, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var (
		micros int64
		n1     int
	)
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.FirstSeen = time.UnixMicro(micros).UTC()
	return
}

func (entryMUS) Size(v Entry) (size int) {
	return ord.String.Size(v.Source) + varint.Int64.Size(v.FirstSeen.UnixMicro())
}

func (entryMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}

// MarshalEntry serializes an Entry to bytes.
func MarshalEntry(entry Entry) []byte {
	buf := make([]byte, EntryMUS.Size(entry))
	EntryMUS.Marshal(entry, buf)
	return buf
}

// UnmarshalEntry deserializes an Entry from bytes.
func UnmarshalEntry(data []byte) (Entry, error) {
	entry, _, err := EntryMUS.Unmarshal(data)
	return entry, err
}
