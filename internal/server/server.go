package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/Tiag8/bible-study-sub001/internal/cache"
	"github.com/Tiag8/bible-study-sub001/internal/compress"
	"github.com/Tiag8/bible-study-sub001/internal/config"
	"github.com/Tiag8/bible-study-sub001/internal/jobs"
	"github.com/Tiag8/bible-study-sub001/internal/queue"
	"github.com/Tiag8/bible-study-sub001/internal/search"
	"github.com/Tiag8/bible-study-sub001/internal/service"
	"github.com/Tiag8/bible-study-sub001/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/gobuffalo/packr"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Server represents the server
type Server struct {
	httpPort string
	secure   bool // by default the server is secure
}

// NewServer creates a new server
func NewServer(httpPort string, secure bool) *Server {
	return &Server{
		httpPort: httpPort,
		secure:   secure,
	}
}

// Start starts the server
func (s *Server) Start() {
	if err := Start(s.httpPort); err != nil {
		logrus.Fatalf("error starting server: %v", err)
	}
}

// Start starts the http server with its background jobs
func Start(httpPort string) error {
	httpPort = ":" + httpPort

	cnf := config.LoadConfig()
	rdb := config.GetDb(cnf)

	rl, err := net.Listen("tcp", httpPort)
	if err != nil {
		return err
	}

	studyStore := store.NewGormStore(rdb)
	err = studyStore.Migrate()
	if err != nil {
		return err
	}

	index, err := search.NewIndex(cnf.SearchIndexPath)
	if err != nil {
		return err
	}

	var studyCache cache.StudyCache
	var studyQueue queue.StudyQueue

	if cnf.RedisAddr != "" {
		redis, err := cache.NewRedis(cnf.RedisAddr)
		if err != nil {
			return err
		}
		studyCache = cache.NewRedisStudyCache(redis)
		studyQueue = queue.NewRedisStudyQueue(redis.Client())
	} else {
		studyCache = cache.NewNullStudyCache()
		studyQueue = queue.NewMemoryStudyQueue()
	}

	compressor := compress.NewGZip()

	studies := service.NewStudyService(compressor, studyStore, studyCache, index, studyQueue)
	references := service.NewReferenceService(studyStore, studyCache)

	handler := NewHandler(studies, references)

	r := chi.NewRouter()
	r.Use(RequestTimeMiddleware)
	r.Use(AuthMiddleware(NewNullTokenVerifier()))
	handler.Routes(r)

	apiMux := http.NewServeMux()
	openapiDocs := packr.NewBox("../../docs/v1")
	docsPath := "/v1/docs/"
	apiMux.Handle(docsPath, http.StripPrefix(docsPath, http.FileServer(openapiDocs)))
	apiMux.Handle("/", r)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // All origins are allowed
		AllowedMethods:   []string{"GET", "POST", "DELETE", "PUT"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	restServer := &http.Server{
		Addr:         httpPort,
		Handler:      c.Handler(apiMux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	retention := time.Duration(cnf.TrashRetentionDays) * 24 * time.Hour
	executor := jobs.NewTaskExecutor(
		[]jobs.Job{
			jobs.NewIndexSync(studyQueue, index),
		},
		[]jobs.CronJob{
			jobs.NewTrashPurge("@every 1h", studyStore, index, retention),
			jobs.NewReferenceSweep("@every 10m", studyStore, studyCache),
		},
	)
	executor.Run()

	cleaner := jobs.NewRevisionCleaner(studyStore)
	go cleaner.Run()

	// make sure to wait for the server to stop before exiting
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Info("starting rest server on: ", httpPort)
		logrus.Info("click on the following link to view the API documentation: http://localhost", httpPort, "/v1/docs/")
		if err := restServer.Serve(rl); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logrus.Errorf("error starting rest server: %v", err)
			}
		}
		logrus.Infof("rest server stopped")
	}()

	time.Sleep(1 * time.Second)
	logrus.Infof("Press Ctrl+C to stop the server")

	// listen for interrupt signal to gracefully shut down the server
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGTERM, unix.SIGINT, unix.SIGTSTP)
	<-sigs
	// clean Ctrl+C output
	fmt.Println()

	executor.Stop()
	cleaner.Stop()

	err = restServer.Shutdown(context.Background())
	if err != nil {
		logrus.Errorf("error stopping rest server: %v", err)
	}

	if err := index.Close(); err != nil {
		logrus.Errorf("error closing search index: %v", err)
	}

	wg.Wait()

	return nil
}
