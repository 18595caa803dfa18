package main

import "github.com/mazta/kpi-dashboard/cmd"

func main() {
	cmd.Execute()
}
