package globals

const VERSION = "v0.1.0"

const METERS_PER_MILE = 1609.344
const FEET_PER_MILE = 5280

// SEAM_THRESHOLD is the distance in meters under which the first point of a segment is treated as a
// duplicate of the last point of the previous segment.
const SEAM_THRESHOLD = 50.0

// NO_DATA is the floor for elevation values in feet. The USGS service returns -1000000 where it has no
// data, so anything at or below this is not a measurement.
const NO_DATA = -1000.0

const FEET_PER_METER = 3.28084
