package main

import (
	"net/http"

	"marksbot/internal/config"
	"marksbot/internal/database"
	"marksbot/internal/handler"
	"marksbot/internal/interpret"
	"marksbot/internal/service"
	"marksbot/internal/store"
	"marksbot/internal/subject"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/phuslu/log"
)

func main() {
	// Initialize database and store
	db := database.InitDB()
	markStore := store.NewMarkStore(db)

	// Subject aliases: static seed plus whatever previous uploads taught us
	resolver := subject.NewResolver(markStore)
	aliases, err := markStore.Aliases()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load subject aliases")
	}
	resolver.Load(aliases)

	// Initialize services
	ingestService := service.NewIngestService(markStore, resolver)
	askService := service.NewAskService(interpret.New(resolver, markStore))
	studentService := service.NewStudentService(markStore)

	// Initialize handlers
	uploadHandler := handler.NewUploadHandler(ingestService)
	askHandler := handler.NewAskHandler(askService)
	studentHandler := handler.NewStudentHandler(studentService)
	importsHandler := handler.NewImportsHandler(ingestService)

	// Setup router
	r := mux.NewRouter()

	r.HandleFunc("/upload", uploadHandler.UploadPDF).Methods("POST")
	r.HandleFunc("/ask", askHandler.Ask).Methods("POST")
	r.HandleFunc("/students/{id}/marks", studentHandler.ListMarks).Methods("GET")
	r.HandleFunc("/imports", importsHandler.GetAllImports).Methods("GET")
	r.HandleFunc("/imports/file", importsHandler.GetFileImport).Methods("GET")

	// Start server
	log.Info().Str("port", config.Port).Msg("server running")
	err = http.ListenAndServe(":"+config.Port,
		handlers.CORS(handlers.AllowedOrigins([]string{config.CORSOrigin}))(r))
	if err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
