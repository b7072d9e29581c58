/*
Copyright 2025 The Helix Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package mvrewrite

import (
	"github.com/google/uuid"

	"github.com/helixdb/helix/go/log"
)

// Tracer receives one line per rejected rewrite attempt. Tracing is
// advisory: implementations must not block and can never affect the rewrite
// outcome.
type Tracer interface {
	Rejected(view string, attempt uuid.UUID, cause string)
}

type logTracer struct{}

func (logTracer) Rejected(view string, attempt uuid.UUID, cause string) {
	log.V(2).Infof("materialized view rewrite rejected: view=%s attempt=%s cause=%s", view, attempt, cause)
}

// NewLogTracer returns a Tracer that writes through the process logger at
// verbosity 2.
func NewLogTracer() Tracer {
	return logTracer{}
}

// NopTracer discards all trace output.
type NopTracer struct{}

func (NopTracer) Rejected(string, uuid.UUID, string) {}
