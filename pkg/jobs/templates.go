package jobs

import "text/template"

var macroTemplate = template.Must(template.New("macro").Parse(
	`/random/setSeeds{{range .Seeds}} {{.}}{{end}}
/run/numberOfThreads {{.Threads}}
/detector/absorberLength {{.Job.Thickness}} mm
/detector/gapLength {{.GapLength}} mm
/detector/numLayers {{.Job.Layers}}
/detector/absorberMaterial {{.Job.Material}}
/detector/targetLength {{.TargetLength}} cm
/analysis/setFileName {{.Job.Name}}
/run/initialize
/gun/particle gamma
/gun/position 0 0 -1 cm
/gun/momentum 0 0 1
/gun/energy {{.Job.Energy}} GeV
/run/beamOn {{.Events}}
`))

var shellTemplate = template.Must(template.New("shell").Parse(
	`#!/bin/sh
source {{.EnvSetup}}
cd {{.Job.Dir}}
{{.G4Exe}} {{.Job.Name}}.mac
`))

var condorTemplate = template.Must(template.New("condor").Parse(
	`{{if eq .Mode "direct"}}executable              = {{.G4Exe}}
{{else}}executable              = $(filename)
{{end}}universe                = vanilla
getenv                  = True
RequestCpus             = {{.Threads}}
RequestMemory           = {{.RequestMemory}}
{{if eq .Mode "direct"}}arguments               = $(filename)
transfer_input_files    = $(filename)
output                  = log/$(filename)_$(Process).out
error                   = log/$(filename)_$(Process).err
{{end}}accounting_group        = {{.AccountingGroup}}
+JobBatchName = "{{.Job.BatchName}}"
queue filename matching {{.FilePrefix}}*.{{if eq .Mode "direct"}}mac{{else}}sh{{end}}
`))
