/*Package interval implements the genomic-interval operations needed to
  locate restriction-site remnants: half-open stranded intervals, a
  chromosome-size table for strand-aware slop, an ordered deduplicating
  interval set with exact-match membership, and BED input/output.
  Positions are PosType (int32), since that's what BAM files are limited to.
*/
package interval
