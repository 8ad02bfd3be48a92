// Comando devtoken: emite un JWT de desarrollo firmado con JWT_SECRET
// (el login queda fuera de este servicio).
//
//	go run ./cmd/devtoken --user admin --role administrador
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	flag "github.com/spf13/pflag"

	"github.com/jhoicas/taller-api/pkg/config"
	"github.com/jhoicas/taller-api/pkg/jwt"
)

func main() {
	username := flag.String("user", "admin", "nombre de usuario")
	role := flag.String("role", "administrador", "rol: administrador | empleado")
	minutes := flag.Int("exp", 0, "minutos de validez (0 = JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	exp := cfg.JWT.Expiration
	if *minutes > 0 {
		exp = *minutes
	}

	token, err := jwt.Generate(cfg.JWT.Secret, uuid.New().String(), *username, *role, cfg.JWT.Issuer, exp)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generar token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
