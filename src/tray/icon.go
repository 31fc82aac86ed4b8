package tray

// SVG content for the tray icon: a ruler diagonal between two marked points.
const SVGContent = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 16 16" width="16" height="16">
  <!-- Measured span -->
  <line x1="3" y1="13" x2="13" y2="3" stroke="#0078d4" stroke-width="1.5" stroke-dasharray="2,1"/>

  <!-- Endpoint markers -->
  <circle cx="3" cy="13" r="2" fill="#d43a00" stroke="#ffffff" stroke-width="0.8"/>
  <circle cx="13" cy="3" r="2" fill="#004ed4" stroke="#ffffff" stroke-width="0.8"/>

  <!-- Tick marks along the span -->
  <line x1="6" y1="11" x2="7" y2="12" stroke="#333333" stroke-width="0.8"/>
  <line x1="9" y1="8" x2="10" y2="9" stroke="#333333" stroke-width="0.8"/>
  <line x1="12" y1="5" x2="13" y2="6" stroke="#333333" stroke-width="0.8"/>
</svg>`
