// Command tesoreria tareas de operación: migraciones, auditoría del libro y formato de numeración.
package main

func main() {
	Execute()
}
