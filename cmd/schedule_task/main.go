package main

import "journeylink_app/cmd/schedule_task/cmd"

func main() {
	cmd.Execute()
}
