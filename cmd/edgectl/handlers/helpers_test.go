package handlers

import (
	"bytes"
	"io"
	"os"
	"testing"
)

// captureOutput captures stdout produced by fn.
func captureOutput(fn func()) string {
	orig := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// saveAndRestoreFactories saves and restores the provision factory functions.
func saveAndRestoreFactories(t *testing.T) {
	origNewRunner := newRunner
	origNewHardwareProbe := newHardwareProbe
	origNewArchProbe := newArchProbe
	origNewInstaller := newInstaller
	origDefaultConfigPath := defaultConfigPath
	origLoadProfile := loadProfile
	origFindProfile := findProfile
	origCheckDefaultPrereqs := checkDefaultPrereqs
	origRunOrchestrator := runOrchestrator

	t.Cleanup(func() {
		newRunner = origNewRunner
		newHardwareProbe = origNewHardwareProbe
		newArchProbe = origNewArchProbe
		newInstaller = origNewInstaller
		defaultConfigPath = origDefaultConfigPath
		loadProfile = origLoadProfile
		findProfile = origFindProfile
		checkDefaultPrereqs = origCheckDefaultPrereqs
		runOrchestrator = origRunOrchestrator
	})
}

// saveAndRestoreInitFactories saves and restores the init factory functions.
func saveAndRestoreInitFactories(t *testing.T) {
	origFileExists := fileExists
	origRunWizard := runWizard
	origWriteProfile := writeProfile
	origStdoutIsTerminal := stdoutIsTerminal

	t.Cleanup(func() {
		fileExists = origFileExists
		runWizard = origRunWizard
		writeProfile = origWriteProfile
		stdoutIsTerminal = origStdoutIsTerminal
	})
}

// saveAndRestoreDoctorFactories saves and restores the doctor factory functions.
func saveAndRestoreDoctorFactories(t *testing.T) {
	origCheckAllPrereqs := checkAllPrereqs
	origNewRunner := newRunner
	origNewArchProbe := newArchProbe
	origNewHardwareProbe := newHardwareProbe
	origDefaultConfigPath := defaultConfigPath
	origFileExists := fileExists

	t.Cleanup(func() {
		checkAllPrereqs = origCheckAllPrereqs
		newRunner = origNewRunner
		newArchProbe = origNewArchProbe
		newHardwareProbe = origNewHardwareProbe
		defaultConfigPath = origDefaultConfigPath
		fileExists = origFileExists
	})
}
