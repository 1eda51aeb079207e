package manager

import (
	"github.com/sirupsen/logrus"

	"inventory/logging"
)

var log *logrus.Logger

func init() {
	log = logging.GetLogger()
}
