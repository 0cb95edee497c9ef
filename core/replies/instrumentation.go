package replies

import "go.opentelemetry.io/contrib/bridges/otelslog"

const scopeName = "github.com/koscakluka/ema-console/core/replies"

var logger = otelslog.NewLogger(scopeName)
