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

package core

import "context"

// Context carries a standard context.Context plus the Logger in force
// for this call chain. It is the first argument to nearly every
// blocking call in this module, the same convention the rule engine
// this was adapted from used for its own *Context.
type Context struct {
	context.Context
	Logger Logger
}

// NewContext wraps a stdlib context with the given logger. A nil
// logger falls back to DefaultLogger at log time.
func NewContext(std context.Context, logger Logger) *Context {
	if std == nil {
		std = context.Background()
	}
	return &Context{Context: std, Logger: logger}
}

// Background returns a *Context suitable for top-level callers (tests,
// bootstrap) that have no request-scoped context yet.
func Background() *Context {
	return NewContext(context.Background(), DefaultLogger)
}
