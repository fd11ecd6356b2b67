package app

import (
	"github.com/shandysiswandi/gonotif/internal/notification"
)

// initModules registers routes and starts background jobs. A disabled
// notification module has no delivery pool, so its Stats and Close are no-ops.
func (a *App) initModules() {
	mod, err := notification.New(notification.Dependency{
		Ctx:        a.ctx,
		Config:     a.config,
		Instrument: a.ins,
		Router:     a.router,
		Enforcer:   a.casbin,
		Validator:  a.validator,

		DBConn:    a.dbConn,
		Idemp:     a.idemp,
		Messaging: a.messaging,
		Storage:   a.storage,

		UID:       a.uid,
		UUID:      a.uuid,
		Clock:     a.clock,
		Goroutine: a.goroutine,
	})
	exitOnErr(err, "failed to init module notification")

	a.notification = mod
}
