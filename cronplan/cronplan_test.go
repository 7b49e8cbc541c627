// Copyright 2026 The Schedulem8 Authors
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
//
// End Copyright

package cronplan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNextEveryTwoSeconds(t *testing.T) {
	p := NewPlanner(false)
	ref := time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC)
	next, err := p.Next("0/2 * * * * *", ref)
	require.NoError(t, err)
	require.True(t, next.After(ref))
	require.Equal(t, 0, next.Second()%2)
}

func TestValidateRejectsGarbage(t *testing.T) {
	p := NewPlanner(false)
	err := p.Validate("not a cron expression")
	require.Error(t, err)
}

func TestV1RewritesQuestionMarkToStar(t *testing.T) {
	p := NewPlanner(true)
	require.NoError(t, p.Validate("0 0 12 ? * MON"))
}

func TestV2IsStrictAboutQuestionMark(t *testing.T) {
	p := NewPlanner(false)
	// cronexpr accepts '?' nowhere in its dialect; v2 never rewrites it.
	err := p.Validate("0 0 12 ? * MON")
	require.Error(t, err)
}
