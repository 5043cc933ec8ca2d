package testutil

import (
	"fmt"
	"os"
	"os/exec"
	"path"
	"runtime"
	"strings"
	"time"

	"github.com/gocql/gocql"
	"github.com/gridkit/olympic-data-apis/log"
	. "github.com/onsi/ginkgo"
	"go.uber.org/zap"
)

const Host = "127.0.0.1"

var started = false
var sessions []*gocql.Session

func startCassandra() {
	if started {
		return
	}
	started = true
	version := cassandraVersion()
	fmt.Printf("Starting Cassandra %s\n", version)
	executeCcm(fmt.Sprintf("create test -v %s -n 1 -s -b", version))
}

func shutdownCassandra() {
	if !started {
		return
	}
	fmt.Println("Shutting down cassandra")
	executeCcm("remove")
	started = false
}

func executeCcm(command string) {
	ccmCommand := fmt.Sprintf("ccm %s", command)
	cmd := exec.Command("bash", "-c", ccmCommand)
	output, err := cmd.CombinedOutput()
	outputStr := string(output)
	if outputStr != "" {
		fmt.Println("Output", outputStr)
	}
	if err != nil {
		fmt.Println("Error", err)
		panic(err)
	}
}

func cassandraVersion() string {
	version := os.Getenv("CCM_VERSION")
	if version == "" {
		version = "3.11.6"
	}
	return version
}

// CreateSchema runs schemas/<name>/schema.cql against the ccm node
func CreateSchema(name string) {
	_, currentFile, _, _ := runtime.Caller(0)
	dir := path.Dir(currentFile)
	filePath := path.Join(dir, "schemas", name, "schema.cql")
	executeCcm(fmt.Sprintf("node1 cqlsh -f %s", filePath))
}

// EnsureCcmCluster starts a single node ccm cluster before the suite, runs the setup functions
// and removes the cluster after the suite
func EnsureCcmCluster(setupFns ...func()) {
	BeforeSuite(func() {
		startCassandra()
		for _, fn := range setupFns {
			fn()
		}
	})

	AfterSuite(func() {
		for _, session := range sessions {
			session.Close()
		}
		sessions = nil
		shutdownCassandra()
	})
}

// NewSession connects to the ccm cluster, the session is closed after the suite
func NewSession(keyspace string) *gocql.Session {
	cluster := gocql.NewCluster(Host)
	cluster.Timeout = 5 * time.Second
	cluster.ConnectTimeout = cluster.Timeout
	cluster.Keyspace = keyspace

	session, err := cluster.CreateSession()
	PanicIfError(err)
	sessions = append(sessions, session)
	return session
}

func PanicIfError(err error) {
	if err != nil {
		panic(err)
	}
}

func TestLogger() log.Logger {
	if strings.ToUpper(os.Getenv("TEST_TRACE")) == "ON" {
		logger, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return log.NewZapLogger(logger)
	}

	return log.NewZapLogger(zap.NewNop())
}
