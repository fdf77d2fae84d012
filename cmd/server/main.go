package main

import (
	"fmt"
	"log"

	"github.com/socialchat/backend/bootstrap"
	"github.com/socialchat/backend/http/route"
)

func main() {
	app, err := bootstrap.NewApp()
	if err != nil {
		log.Fatalf("failed to bootstrap application: %s", err)
	}

	defer app.CassandraSession.Close()
	defer app.RedisClient.Close()

	if app.RabbitMQConnection != nil {
		defer app.RabbitMQConnection.Close()
	}

	eng, err := route.Setup(app)
	if err != nil {
		log.Fatalf("failed to setup routes: %s", err)
	}

	addr := fmt.Sprintf(":%d", app.Env.HTTPPortNumber)

	log.Printf("Listening port %d", app.Env.HTTPPortNumber)

	if err := eng.Run(addr); err != nil {
		log.Fatalf("failed to run http server: %s", err)
	}
}
