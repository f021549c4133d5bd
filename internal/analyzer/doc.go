// Package analyzer turns a command into a ComprehensiveContext.
//
// Analysis runs in a fixed order:
//
//  1. parse the command (nlp.Parser)
//  2. resolve test types, services and actions, applying defaults
//     (UNIT and INTEGRATION, every catalog service, RUN_TESTS)
//  3. analyze dependencies
//  4. build the execution plan, one step per action x service x test type
//  5. assess risk and derive resource requirements
//  6. estimate duration, collect warnings and suggestions, score confidence
//
// Each stage is an exported function so it can be used and tested on its own.
// The Analyzer never returns an error: a failed parse or a panic produces an
// ErrorContext with zero confidence and a single warning.
package analyzer
