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

package api

import (
	"context"
	"net"
	"net/http"

	"github.com/AGhost-7/schedule-m8/core"
)

// Server binds the Handler to an address and serves until Stop is
// called. Modeled on service.HTTPService.Start's listen-then-serve
// shape, simplified: this generation has no per-account admission
// control, so there's no connection-draining Listener to wrap.
type Server struct {
	ctx     *core.Context
	addr    string
	httpSrv *http.Server
	done    chan struct{}
}

// NewServer constructs a Server that will bind addr and route every
// request to h.
func NewServer(ctx *core.Context, addr string, h *Handler) *Server {
	return &Server{
		ctx:     ctx,
		addr:    addr,
		httpSrv: &http.Server{Addr: addr, Handler: h, MaxHeaderBytes: 1 << 20},
		done:    make(chan struct{}),
	}
}

// Start binds addr and begins serving in the background, returning
// once the listener is open.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return core.NewUnexpectedError("listening on %s: %v", s.addr, err)
	}
	s.addr = lis.Addr().String()
	go func() {
		defer close(s.done)
		if err := s.httpSrv.Serve(lis); err != nil && err != http.ErrServerClosed {
			core.Log(core.CRIT|core.SYS|core.API, s.ctx, "api.Server", "error", err)
		}
	}()
	core.Log(core.INFO|core.SYS|core.API, s.ctx, "api.Server.Start", "addr", s.addr)
	return nil
}

// Addr reports the address this server is bound to.
func (s *Server) Addr() string {
	return s.addr
}

// Stop gracefully shuts the server down, waiting for in-flight
// requests to finish within ctx's deadline.
func (s *Server) Stop(ctx context.Context) error {
	err := s.httpSrv.Shutdown(ctx)
	<-s.done
	core.Log(core.INFO|core.SYS|core.API, s.ctx, "api.Server.Stop")
	return err
}
