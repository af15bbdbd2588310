package hostfs

import (
	"fmt"
	"strings"
)

// psQuote формирует строковый литерал PowerShell в одинарных кавычках.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func testWSManScript(computerName string) string {
	return fmt.Sprintf("Test-WSMan -ComputerName %s -ErrorAction Stop | Out-Null", psQuote(computerName))
}

// moveItemScript перемещает файл в удалённом сеансе. Move-Item без -Force
// завершается ошибкой, если файл назначения существует.
func moveItemScript(host, source, destination string) string {
	return fmt.Sprintf(`$ErrorActionPreference = 'Stop'
Invoke-Command -ComputerName %s -ScriptBlock {
    param($Source, $Destination)
    Move-Item -LiteralPath $Source -Destination $Destination
} -ArgumentList %s, %s`, psQuote(host), psQuote(source), psQuote(destination))
}
