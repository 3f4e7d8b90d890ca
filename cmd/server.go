package cmd

import (
	"encoding/csv"
	"errors"
	"fmt"
	log2 "log"
	"net/http"
	"os"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/datastax/data-views/config"
	"github.com/datastax/data-views/endpoint"
	"github.com/datastax/data-views/graphql"
	"github.com/datastax/data-views/log"
	"github.com/datastax/data-views/pipeline"
	"github.com/datastax/data-views/rest/contextutils"
)

const defaultGraphQLPath = "/graphql"
const defaultRESTPath = "/"
const defaultGraphQLPlaygroundPath = "/graphql-playground"

// Environment variables prefixed with "DATA_VIEWS_" can override settings e.g. "DATA_VIEWS_PORT"
const envVarPrefix = "data_views"

var cfgFile string
var logger log.Logger

var serverCmd = &cobra.Command{
	Use:   os.Args[0] + " --datasets-file [FILE] [--start-graphql|--start-rest] [OPTIONS]",
	Short: "GraphQL and REST endpoints to search, filter, sort and paginate datasets",
	Args: func(cmd *cobra.Command, args []string) error {
		startGraphQL := viper.GetBool("start-graphql")
		startREST := viper.GetBool("start-rest")

		if !startGraphQL && !startREST {
			return errors.New("at least one endpoint type should be started")
		}

		if startGraphQL && startREST && viper.GetString("graphql-path") == viper.GetString("rest-path") {
			return errors.New("graphql and rest paths can not be the same")
		}

		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		datasets, err := loadDatasets()
		if err != nil {
			logger.Fatal("unable to load dataset definitions", "error", err)
		}
		if len(datasets) == 0 {
			logger.Fatal("at least one dataset should be defined")
		}

		supportedOps := getStringSlice("operations")
		ops, err := config.Ops(supportedOps...)
		if err != nil {
			logger.Fatal("invalid supported operation", "operations", supportedOps, "error", err)
		}

		dataEndpoint := createEndpoint(datasets)
		defer dataEndpoint.Close()

		router := createRouter()
		endpointNames := ""
		if viper.GetBool("start-graphql") {
			addGraphQLRoutes(router, dataEndpoint, ops)
			endpointNames += "GraphQL"
		}
		if viper.GetBool("start-rest") {
			addRESTRoutes(router, dataEndpoint, ops)
			if endpointNames != "" {
				endpointNames += "/"
			}
			endpointNames += "REST"
		}
		listenAndServe(router, viper.GetInt("port"), endpointNames)
	},
}

// Execute start GraphQL/REST endpoints
func Execute() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log2.Fatalf("unable to initialize logger: %v", err)
	}

	logger = log.NewZapLogger(zapLogger)

	flags := serverCmd.PersistentFlags()

	// General endpoint flags
	flags.StringVarP(&cfgFile, "config", "c", "", "config file")
	flags.StringP("datasets-file", "d", "", "YAML or JSON file containing a \"datasets\" list")
	flags.Int("port", 8080, "endpoint port")
	flags.Bool("request-logging", false, "enable request logging")
	flags.String("access-control-allow-origin", "", "Access-Control-Allow-Origin header value")
	flags.Int("default-page-size", pipeline.DefaultPageSize, "page size used when neither the request nor the dataset set one")
	flags.Int("max-page-size", endpoint.DefaultMaxPageSize, "largest page size a request may ask for")
	flags.Duration("data-update-interval", endpoint.DefaultDataUpdateInterval, "interval used to reload the datasets from their sources")
	flags.Duration("view-expire-interval", endpoint.DefaultViewExpireInterval, "idle time after which a view is dropped")
	flags.StringSlice("operations", config.AllOperations,
		"list of supported operations. options: "+strings.Join(config.AllOperations, ","))

	// GraphQL specific flags
	flags.Bool("start-graphql", true, "start the GraphQL endpoint")
	flags.String("graphql-path", defaultGraphQLPath, "GraphQL endpoint path")
	flags.Bool("graphql-playground", true, "expose a GraphQL playground route")
	flags.String("graphql-playground-path", defaultGraphQLPlaygroundPath, "path for the GraphQL playground static file")

	// REST specific flags
	flags.Bool("start-rest", true, "start the REST endpoint")
	flags.String("rest-path", defaultRESTPath, "REST endpoint path")

	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Name != "config" {
			viper.BindPFlag(flag.Name, flags.Lookup(flag.Name))
		}
	})

	cobra.OnInitialize(initialize)

	viper.SetEnvPrefix(envVarPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := serverCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadDatasets reads the "datasets" defined in the config file followed by the ones of the datasets file
func loadDatasets() ([]config.DatasetConfig, error) {
	datasets, err := config.DecodeDatasets(viper.Get("datasets"))
	if err != nil {
		return nil, err
	}

	if file := viper.GetString("datasets-file"); file != "" {
		v := viper.New()
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read datasets file: %w", err)
		}
		fromFile, err := config.DecodeDatasets(v.Get("datasets"))
		if err != nil {
			return nil, fmt.Errorf("invalid datasets file %s: %w", file, err)
		}
		datasets = append(datasets, fromFile...)
	}

	return datasets, nil
}

func createEndpoint(datasets []config.DatasetConfig) *endpoint.DataEndpoint {
	cfg := endpoint.NewEndpointConfigWithLogger(logger, datasets...)

	updateInterval := viper.GetDuration("data-update-interval")
	if updateInterval <= 0 {
		updateInterval = endpoint.DefaultDataUpdateInterval
	}

	expireInterval := viper.GetDuration("view-expire-interval")
	if expireInterval <= 0 {
		expireInterval = endpoint.DefaultViewExpireInterval
	}

	cfg.
		WithDefaultPageSize(viper.GetInt("default-page-size")).
		WithMaxPageSize(viper.GetInt("max-page-size")).
		WithDataUpdateInterval(updateInterval).
		WithViewExpireInterval(expireInterval)

	dataEndpoint, err := cfg.NewEndpoint()
	if err != nil {
		logger.Fatal("unable create new endpoint",
			"error", err)
	}

	return dataEndpoint
}

func addGraphQLRoutes(router *httprouter.Router, dataEndpoint *endpoint.DataEndpoint, ops config.Operations) {
	rootPath := viper.GetString("graphql-path")
	routes, err := dataEndpoint.RoutesGraphQL(rootPath, ops)
	if err != nil {
		logger.Fatal("unable to generate graphql routes",
			"error", err)
	}

	for _, route := range routes {
		router.Handler(route.Method, route.Pattern, route.Handler)
	}

	if viper.GetBool("graphql-playground") {
		playgroundPath := viper.GetString("graphql-playground-path")
		hostAndPort := fmt.Sprintf("http://localhost:%d", viper.GetInt("port"))
		defaultEndpointUrl := fmt.Sprintf("%s%s", hostAndPort, rootPath)
		logger.Info("get started by visiting the GraphQL playground",
			"url", fmt.Sprintf("%s%s", hostAndPort, playgroundPath))
		router.GET(playgroundPath, graphql.GetPlaygroundHandle(defaultEndpointUrl))
	}
}

func addRESTRoutes(router *httprouter.Router, dataEndpoint *endpoint.DataEndpoint, ops config.Operations) {
	for _, route := range dataEndpoint.RoutesRest(viper.GetString("rest-path"), ops) {
		router.Handler(route.Method, route.Pattern, route.Handler)
	}
}

func maybeAddRequestLogging(handler http.Handler) http.Handler {
	if viper.GetBool("request-logging") {
		handler = log.NewLoggingHandler(handler, logger)
	}
	return handler
}

func maybeAddCORS(handler http.Handler) http.Handler {
	if value := viper.GetString("access-control-allow-origin"); value != "" {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", value)
			w.Header().Set("Access-Control-Expose-Headers", contextutils.RequestIDHeader)
			handler.ServeHTTP(w, r)
		})
	}
	return handler
}

func initialize() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err == nil {
			logger.Info("using config file",
				"file", viper.ConfigFileUsed())
		} else {
			logger.Fatal("unable to read config file", "file", cfgFile, "error", err)
		}
	}
}

func createRouter() *httprouter.Router {
	router := httprouter.New()
	if value := viper.GetString("access-control-allow-origin"); value != "" {
		router.GlobalOPTIONS = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Access-Control-Request-Method") != "" {
				header := w.Header()
				header.Set("Access-Control-Allow-Methods", r.Header.Get("Access-Control-Request-Method"))
				header.Set("Access-Control-Allow-Headers", r.Header.Get("Access-Control-Request-Headers"))
				header.Set("Access-Control-Allow-Origin", value)
			}

			w.WriteHeader(http.StatusNoContent)
		})
	}
	return router
}

func listenAndServe(handler http.Handler, port int, endpointNames string) {
	logger.Info("server listening",
		"port", port,
		"type", endpointNames)
	handler = contextutils.NewRequestIDHandler(maybeAddCORS(maybeAddRequestLogging(handler)))
	err := http.ListenAndServe(fmt.Sprintf(":%d", port), handler)
	if err != nil {
		logger.Fatal("unable to start server",
			"port", port,
			"error", err)
	}
}

func getStringSlice(key string) []string {
	value := viper.GetStringSlice(key)
	slice, err := toStringSlice(value)
	if err != nil {
		logger.Fatal("invalid string slice value for setting",
			"error", err,
			"key", key,
			"value", value)
	}
	return slice
}

func toStringSlice(slice []string) ([]string, error) {
	result := make([]string, 0)
	for _, entry := range slice {
		stringReader := strings.NewReader(entry)
		csvReader := csv.NewReader(stringReader)
		split, err := csvReader.Read()
		if err != nil {
			return nil, err
		}
		for _, part := range split {
			if part = strings.TrimSpace(part); part != "" { // Don't add empty values
				result = append(result, part)
			}
		}
	}
	return result, nil
}
