package main

import (
	"context"
	"time"

	"github.com/shandysiswandi/gonotif/internal/app"
)

// shutdownTimeout covers one in-flight WhatsApp send per worker plus the
// closers.
const shutdownTimeout = 30 * time.Second

// @title           Gonotif API
// @version         1.0
// @description     Gonotif dispatches WhatsApp customer notifications and exposes the delivery audit log.
// @contact.name    Contact Support
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
// @server          https://localhost:8080
// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT.
func main() {
	application := app.New()
	<-application.Start()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	application.Stop(ctx)
}
