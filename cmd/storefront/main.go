package main

import "github.com/FernandoJacobo/ecommerce-sub001/cmd/storefront/cmd"

func main() {
	cmd.Execute()
}
