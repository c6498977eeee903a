package booking

import (
	"github.com/beautycort/booking-core/pkg/dbmetrics"
)

// Репозиторий выполняет запросы через общий executor: вне транзакции это
// *sql.DB (или его обёртка с метриками), внутри резервирования - executor
// сериализуемой транзакции, полученный из контекста
type DBExecutor = dbmetrics.DBExecutor
