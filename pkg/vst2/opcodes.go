package vst2

// EffectOpcode selects an operation in the plugin's dispatcher.
// Values are fixed by the VST 2.4 SDK and must not be renumbered.
type EffectOpcode int32

// Effect (plugin) dispatcher opcodes.
const (
	EffOpen EffectOpcode = iota
	EffClose
	EffSetProgram
	EffGetProgram
	EffSetProgramName
	EffGetProgramName
	EffGetParamLabel
	EffGetParamDisplay
	EffGetParamName
	EffGetVu // deprecated
	EffSetSampleRate
	EffSetBlockSize
	EffMainsChanged
	EffEditGetRect
	EffEditOpen
	EffEditClose
	EffEditDraw  // deprecated
	EffEditMouse // deprecated
	EffEditKey   // deprecated
	EffEditIdle
	EffEditTop   // deprecated
	EffEditSleep // deprecated
	EffIdentify  // deprecated
	EffGetChunk
	EffSetChunk
	EffProcessEvents
	EffCanBeAutomated
	EffString2Parameter
	EffGetNumProgramCategories // deprecated
	EffGetProgramNameIndexed
	EffCopyProgram   // deprecated
	EffConnectInput  // deprecated
	EffConnectOutput // deprecated
	EffGetInputProperties
	EffGetOutputProperties
	EffGetPlugCategory
	EffGetCurrentPosition   // deprecated
	EffGetDestinationBuffer // deprecated
	EffOfflineNotify
	EffOfflinePrepare
	EffOfflineRun
	EffProcessVarIo
	EffSetSpeakerArrangement
	EffSetBlockSizeAndSampleRate // deprecated
	EffSetBypass
	EffGetEffectName
	EffGetErrorText // deprecated
	EffGetVendorString
	EffGetProductString
	EffGetVendorVersion
	EffVendorSpecific
	EffCanDo
	EffGetTailSize
	EffIdle            // deprecated
	EffGetIcon         // deprecated
	EffSetViewPosition // deprecated
	EffGetParameterProperties
	EffKeysRequired // deprecated
	EffGetVstVersion
	EffEditKeyDown
	EffEditKeyUp
	EffSetEditKnobMode
	EffGetMidiProgramName
	EffGetCurrentMidiProgram
	EffGetMidiProgramCategory
	EffHasMidiProgramsChanged
	EffGetMidiKeyName
	EffBeginSetProgram
	EffEndSetProgram
	EffGetSpeakerArrangement
	EffShellGetNextPlugin
	EffStartProcess
	EffStopProcess
	EffSetTotalSampleToProcess
	EffSetPanLaw
	EffBeginLoadBank
	EffBeginLoadProgram
	EffSetProcessPrecision
	EffGetNumMidiInputChannels
	EffGetNumMidiOutputChannels
)

// HostOpcode selects an operation a plugin requests from the host.
type HostOpcode int32

// Host (audioMaster) callback opcodes.
const (
	HostAutomate HostOpcode = iota
	HostVersion
	HostCurrentID
	HostIdle
	HostPinConnected // deprecated
	_
	HostWantMidi // deprecated
	HostGetTime
	HostProcessEvents
	HostSetTime                     // deprecated
	HostTempoAt                     // deprecated
	HostGetNumAutomatableParameters // deprecated
	HostGetParameterQuantization    // deprecated
	HostIOChanged
	HostNeedIdle // deprecated
	HostSizeWindow
	HostGetSampleRate
	HostGetBlockSize
	HostGetInputLatency
	HostGetOutputLatency
	HostGetPreviousPlug         // deprecated
	HostGetNextPlug             // deprecated
	HostWillReplaceOrAccumulate // deprecated
	HostGetCurrentProcessLevel
	HostGetAutomationState
	HostOfflineStart
	HostOfflineRead
	HostOfflineWrite
	HostOfflineGetCurrentPass
	HostOfflineGetCurrentMetaPass
	HostSetOutputSampleRate         // deprecated
	HostGetOutputSpeakerArrangement // deprecated
	HostGetVendorString
	HostGetProductString
	HostGetVendorVersion
	HostVendorSpecific
	HostSetIcon // deprecated
	HostCanDo
	HostGetLanguage
	HostOpenWindow  // deprecated
	HostCloseWindow // deprecated
	HostGetDirectory
	HostUpdateDisplay
	HostBeginEdit
	HostEndEdit
	HostOpenFileSelector
	HostCloseFileSelector
)

var hostOpcodeNames = map[HostOpcode]string{
	HostAutomate:               "automate",
	HostVersion:                "version",
	HostCurrentID:              "currentId",
	HostIdle:                   "idle",
	HostPinConnected:           "pinConnected",
	HostWantMidi:               "wantMidi",
	HostGetTime:                "getTime",
	HostProcessEvents:          "processEvents",
	HostIOChanged:              "ioChanged",
	HostNeedIdle:               "needIdle",
	HostSizeWindow:             "sizeWindow",
	HostGetSampleRate:          "getSampleRate",
	HostGetBlockSize:           "getBlockSize",
	HostGetInputLatency:        "getInputLatency",
	HostGetOutputLatency:       "getOutputLatency",
	HostGetCurrentProcessLevel: "getCurrentProcessLevel",
	HostGetAutomationState:     "getAutomationState",
	HostGetVendorString:        "getVendorString",
	HostGetProductString:       "getProductString",
	HostGetVendorVersion:       "getVendorVersion",
	HostVendorSpecific:         "vendorSpecific",
	HostCanDo:                  "canDo",
	HostGetLanguage:            "getLanguage",
	HostGetDirectory:           "getDirectory",
	HostUpdateDisplay:          "updateDisplay",
	HostBeginEdit:              "beginEdit",
	HostEndEdit:                "endEdit",
	HostOpenFileSelector:       "openFileSelector",
	HostCloseFileSelector:      "closeFileSelector",
}

// String returns the SDK name of the opcode without the audioMaster prefix.
func (op HostOpcode) String() string {
	if name, ok := hostOpcodeNames[op]; ok {
		return name
	}
	return "unknown"
}
