package main

import "cotizador/go_backend/internal/app"

func main() {
	app.Run()
}
