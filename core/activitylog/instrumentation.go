package activitylog

import "go.opentelemetry.io/contrib/bridges/otelslog"

const scopeName = "github.com/koscakluka/ema-console/core/activitylog"

var logger = otelslog.NewLogger(scopeName)
