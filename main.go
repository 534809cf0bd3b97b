package main

import (
	"log"
	"net/http"
	"os"

	"github.com/omarwaleed/egystore/app/cmd"
	"github.com/omarwaleed/egystore/app/configs"
	"github.com/omarwaleed/egystore/app/routes"
)

func main() {

	env := configs.LoadEnv()
	if len(os.Args) > 1 {
		cmd.RunCli()
		return
	}

	db, err := configs.OpenConnection()
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	log.Println("✅ Database connected.")

	rdb := configs.OpenRedis()

	router := routes.NewRouter(db, rdb, env)

	server := http.Server{
		Addr:    env.Port,
		Handler: router,
	}

	log.Printf("🚀 Server starting on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatal("server stopped:", err)
	}

}
