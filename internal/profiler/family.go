// Copyright 2026 The Schema Graph Authors
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

package profiler

import "strings"

// Family is the inferred type family of a column. It determines which
// statistics block the profiler emits.
type Family int

const (
	FamilyOpaque Family = iota
	FamilyNumericInteger
	FamilyNumericReal
	FamilyNumericBoolean
	FamilyTemporal
	FamilyTextual
)

// IsNumeric reports whether f is one of the three numeric families.
func (f Family) IsNumeric() bool {
	return f == FamilyNumericInteger || f == FamilyNumericReal || f == FamilyNumericBoolean
}

// InferFamily maps a declared SQLite type string to a family by
// case-insensitive substring match, in priority order. SQLite type
// strings are irregular, so substring affinity is the only reliable
// signal.
func InferFamily(declaredType string) Family {
	t := strings.ToUpper(declaredType)
	switch {
	case strings.Contains(t, "INT"):
		return FamilyNumericInteger
	case containsAny(t, "REAL", "FLOA", "DOUB", "DECIMAL", "NUMERIC"):
		return FamilyNumericReal
	case strings.Contains(t, "BOOL"):
		return FamilyNumericBoolean
	case containsAny(t, "DATE", "TIME"):
		return FamilyTemporal
	case containsAny(t, "CHAR", "TEXT", "CLOB", "JSON"):
		return FamilyTextual
	default:
		return FamilyOpaque
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
