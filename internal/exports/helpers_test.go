package exports

import "github.com/rferreira-dev/survshop-backend/pkg/logger"

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "exports-test"})
}
