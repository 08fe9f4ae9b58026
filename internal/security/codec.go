/*
Copyright 2025 The driver-builder authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package security

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Token storage framing: magic, format version, token count, then per token the
// length-prefixed kind, service, identifier and password fields. Compatible with what the
// driver-side token reader expects at HADOOP_TOKEN_FILE_LOCATION.
var tokenStorageMagic = []byte("HDTS")

const tokenStorageVersion = byte(0)

func serializeCredentials(creds *Credentials) ([]byte, error) {
	if creds == nil {
		return nil, fmt.Errorf("cannot serialize nil credentials")
	}

	var buf bytes.Buffer
	buf.Write(tokenStorageMagic)
	buf.WriteByte(tokenStorageVersion)
	writeUvarint(&buf, uint64(len(creds.Tokens)))
	for _, t := range creds.Tokens {
		writeBytes(&buf, []byte(t.Kind))
		writeBytes(&buf, []byte(t.Service))
		writeBytes(&buf, t.Identifier)
		writeBytes(&buf, t.Password)
	}
	return buf.Bytes(), nil
}

func deserializeCredentials(data []byte) (*Credentials, error) {
	r := bytes.NewReader(data)

	magic := make([]byte, len(tokenStorageMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("failed to read token storage magic: %v", err)
	}
	if !bytes.Equal(magic, tokenStorageMagic) {
		return nil, fmt.Errorf("bad token storage magic %q", magic)
	}
	version, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("failed to read token storage version: %v", err)
	}
	if version != tokenStorageVersion {
		return nil, fmt.Errorf("unsupported token storage version %d", version)
	}

	count, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read token count: %v", err)
	}

	creds := &Credentials{}
	for i := uint64(0); i < count; i++ {
		var token Token
		var fieldErr error
		readField := func() []byte {
			if fieldErr != nil {
				return nil
			}
			b, err := readBytes(r)
			if err != nil {
				fieldErr = err
			}
			return b
		}
		token.Kind = string(readField())
		token.Service = string(readField())
		token.Identifier = readField()
		token.Password = readField()
		if fieldErr != nil {
			return nil, fmt.Errorf("failed to read token %d: %v", i, fieldErr)
		}
		creds.Tokens = append(creds.Tokens, token)
	}
	return creds, nil
}

func writeUvarint(buf *bytes.Buffer, v uint64) {
	tmp := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(tmp, v)
	buf.Write(tmp[:n])
}

func writeBytes(buf *bytes.Buffer, b []byte) {
	writeUvarint(buf, uint64(len(b)))
	buf.Write(b)
}

func readBytes(r *bytes.Reader) ([]byte, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	if n > uint64(r.Len()) {
		return nil, fmt.Errorf("truncated field of length %d", n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}
