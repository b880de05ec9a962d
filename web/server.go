package web

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/voxelforge/voxelforge/library"
)

var serverLibrary *library.Library

// StartServer exposes the model library over http: model and bake-data
// queries, gltf/obj exports, a rebake action and a websocket pushing
// bake progress.
func StartServer(addr string, l *library.Library) error {
	serverLibrary = l

	r := mux.NewRouter()
	r.HandleFunc("/json/models", HandlerModels)
	r.HandleFunc("/json/models/{id}", HandlerModel)
	r.HandleFunc("/json/models/{id}/baked", HandlerModelBaked)
	r.HandleFunc("/dump/models/{id}", HandlerDumpModel)
	r.HandleFunc("/export/models/{id}/gltf", HandlerExportModelGLTF)
	r.HandleFunc("/export/chunk/gltf", HandlerExportChunkGLTF)
	r.HandleFunc("/export/chunk/obj", HandlerExportChunkObj)
	r.HandleFunc("/action/rebake", HandlerRebake)
	r.HandleFunc("/ws/status", HandlerStatusWS)

	h := handlers.RecoveryHandler()(r)
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
