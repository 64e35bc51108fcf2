// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// BRAND COLORS
// =============================================================================

// MedicalBlue - Primary accent, assistant messages, headers
var MedicalBlue = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}

// MedicalBlueDeep - Darker blue for backgrounds
var MedicalBlueDeep = lipgloss.AdaptiveColor{Light: "#1E3A8A", Dark: "#1E3A8A"}

// Teal - User messages, quick replies
var Teal = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"}

// TealDeep - Darker teal for backgrounds
var TealDeep = lipgloss.AdaptiveColor{Light: "#115E59", Dark: "#134E4A"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Red - Errors and the emergency disclaimer
var Red = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}

// Amber - Warnings, listening indicator
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Green - Success states
var Green = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Sky - Status / informational notices
var Sky = lipgloss.AdaptiveColor{Light: "#0284C7", Dark: "#38BDF8"}

// =============================================================================
// SURFACE AND TEXT COLORS
// =============================================================================

// SurfaceDim - Header and footer background
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F1F5F9", Dark: "#0F172A"}

// Overlay - Borders and separators
var Overlay = lipgloss.AdaptiveColor{Light: "#CBD5E1", Dark: "#334155"}

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#0F172A", Dark: "#E2E8F0"}

// TextSecondary - Labels
var TextSecondary = lipgloss.AdaptiveColor{Light: "#475569", Dark: "#94A3B8"}

// TextMuted - Hints and timestamps
var TextMuted = lipgloss.AdaptiveColor{Light: "#94A3B8", Dark: "#64748B"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0F172A"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#134E4A", Dark: "#CCFBF1"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#14B8A6", Dark: "#14B8A6"}

var AssistantBubbleFg = lipgloss.AdaptiveColor{Light: "#1E293B", Dark: "#E2E8F0"}
var AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#93C5FD", Dark: "#3B82F6"}
